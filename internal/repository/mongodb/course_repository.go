package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cassiomorais/coursepay/internal/domain/course"
	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type courseDoc struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Description      string    `bson:"description,omitempty"`
	Price            float64   `bson:"price"`
	StudentsEnrolled []string  `bson:"students_enrolled"`
	CreatedAt        time.Time `bson:"created_at"`
	Archived         bool      `bson:"archived"`
}

func (d *courseDoc) toDomain() *course.Course {
	return &course.Course{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Price:            d.Price,
		StudentsEnrolled: d.StudentsEnrolled,
		CreatedAt:        d.CreatedAt,
		Archived:         d.Archived,
	}
}

// CourseRepository implements course.Repository against the courses collection.
type CourseRepository struct {
	collection *mongo.Collection
}

func NewCourseRepository(client *mongo.Client, dbName string) *CourseRepository {
	return &CourseRepository{
		collection: client.Database(dbName).Collection("courses"),
	}
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	var doc courseDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: find course %q: %v", domainErrors.ErrStoreUnavailable, id, err)
	}
	return doc.toDomain(), nil
}

// AddStudent adds the user to the course's enrolled set. $addToSet keeps the
// operation a no-op for an already-present member.
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, userID string) (*course.Course, error) {
	var doc courseDoc
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": courseID},
		bson.M{"$addToSet": bson.M{"students_enrolled": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: enroll student in course %q: %v", domainErrors.ErrStoreUnavailable, courseID, err)
	}
	return doc.toDomain(), nil
}
