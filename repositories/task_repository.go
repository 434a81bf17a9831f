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

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	// GetByJob returns the live tasks of a job in no particular order; the
	// ordering lives in the job's task_ids sequence.
	GetByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Task, error)
	SetCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

type taskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &taskRepository{collection: db.Collection("tasks")}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *taskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}

	var task models.Task
	err := r.collection.FindOne(ctx, filter).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("task", id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *taskRepository) GetByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.Task, error) {
	filter := bson.M{"job_id": jobID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) SetCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}
	update := bson.M{
		"$set": bson.M{
			"completed":           completed,
			"metadata.updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("task", id.Hex())
	}

	return nil
}

func (r *taskRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}
	update := bson.M{
		"$set": bson.M{
			"is_deleted":          true,
			"metadata.updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("task", id.Hex())
	}

	return nil
}
