package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name,omitempty"`
	Courses   []string  `bson:"courses"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *userDoc) toDomain() *user.User {
	return &user.User{
		ID:        d.ID,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Courses:   d.Courses,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// UserRepository implements user.Repository against the users collection.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, dbName string) *UserRepository {
	return &UserRepository{
		collection: client.Database(dbName).Collection("users"),
	}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user %q: %v", domainErrors.ErrStoreUnavailable, id, err)
	}
	return doc.toDomain(), nil
}

// AddCourse adds the course to the user's enrolled set.
func (r *UserRepository) AddCourse(ctx context.Context, userID, courseID string) (*user.User, error) {
	var doc userDoc
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"courses": courseID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: add course %q to user %q: %v", domainErrors.ErrStoreUnavailable, courseID, userID, err)
	}
	return doc.toDomain(), nil
}
