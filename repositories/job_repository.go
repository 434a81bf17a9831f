package repository

import (
	"context"
	"errors"
	"time"

	"impactplanner/apperrors"
	"impactplanner/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.Job, error)
	// UpdateImpact writes only the derived impact field.
	UpdateImpact(ctx context.Context, id primitive.ObjectID, impact float64) error
	// UpdateSequencing replaces the task ordering and the next-task cursor in
	// one write. A nil nextTaskID clears the cursor.
	UpdateSequencing(ctx context.Context, id primitive.ObjectID, taskIDs []primitive.ObjectID, nextTaskID *primitive.ObjectID) error
}

type jobRepository struct {
	collection *mongo.Collection
}

func NewJobRepository(db *mongo.Database) JobRepository {
	return &jobRepository{collection: db.Collection("jobs")}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	job.ID = primitive.NewObjectID()
	if job.TaskIDs == nil {
		job.TaskIDs = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, job)
	return err
}

func (r *jobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}

	var job models.Job
	err := r.collection.FindOne(ctx, filter).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("job", id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *jobRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Job, error) {
	filter := bson.M{"owner_id": ownerID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []models.Job
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *jobRepository) UpdateImpact(ctx context.Context, id primitive.ObjectID, impact float64) error {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}
	update := bson.M{
		"$set": bson.M{
			"impact":              impact,
			"metadata.updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("job", id.Hex())
	}

	return nil
}

func (r *jobRepository) UpdateSequencing(ctx context.Context, id primitive.ObjectID, taskIDs []primitive.ObjectID, nextTaskID *primitive.ObjectID) error {
	if taskIDs == nil {
		taskIDs = []primitive.ObjectID{}
	}

	set := bson.M{
		"task_ids":            taskIDs,
		"metadata.updated_at": time.Now(),
	}
	update := bson.M{"$set": set}
	if nextTaskID != nil {
		set["next_task_id"] = *nextTaskID
	} else {
		update["$unset"] = bson.M{"next_task_id": ""}
	}

	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("job", id.Hex())
	}

	return nil
}
