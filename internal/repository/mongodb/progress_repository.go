package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/domain/progress"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type progressDoc struct {
	ID              string    `bson:"_id"`
	CourseID        string    `bson:"course_id"`
	UserID          string    `bson:"user_id"`
	CompletedVideos []string  `bson:"completed_videos"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func (d *progressDoc) toDomain() (*progress.Progress, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse progress id %q: %w", d.ID, err)
	}
	return &progress.Progress{
		ID:              id,
		CourseID:        d.CourseID,
		UserID:          d.UserID,
		CompletedVideos: d.CompletedVideos,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// ProgressRepository implements progress.Repository against the
// course_progress collection. A unique index on (course_id, user_id) plus
// upsert semantics keeps one record per pair even across re-enrollment.
type ProgressRepository struct {
	collection *mongo.Collection
}

func NewProgressRepository(client *mongo.Client, dbName string) *ProgressRepository {
	return &ProgressRepository{
		collection: client.Database(dbName).Collection("course_progress"),
	}
}

// Upsert stores the record keyed on (course_id, user_id).
func (r *ProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"course_id": p.CourseID, "user_id": p.UserID},
		bson.M{
			"$setOnInsert": bson.M{
				"_id":              p.ID.String(),
				"completed_videos": p.CompletedVideos,
				"created_at":       p.CreatedAt,
			},
			"$set": bson.M{"updated_at": p.UpdatedAt},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert progress for course %q user %q: %v",
			domainErrors.ErrStoreUnavailable, p.CourseID, p.UserID, err)
	}
	return nil
}

// GetByCourseAndUser retrieves the record for a (course, user) pair.
func (r *ProgressRepository) GetByCourseAndUser(ctx context.Context, courseID, userID string) (*progress.Progress, error) {
	var doc progressDoc
	err := r.collection.FindOne(ctx, bson.M{"course_id": courseID, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find progress for course %q user %q: %v",
			domainErrors.ErrStoreUnavailable, courseID, userID, err)
	}
	return doc.toDomain()
}
