package repository

import (
	"context"

	"impactplanner/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// The two mapping collections form the propagation graph: job_pi_mappings is
// the Job→PI level, pi_qbo_mappings the PI→QBO level.

type JobPIMappingRepository interface {
	Create(ctx context.Context, mapping *models.JobPIMapping) error
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.JobPIMapping, error)
	GetByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.JobPIMapping, error)
}

type PIQBOMappingRepository interface {
	Create(ctx context.Context, mapping *models.PIQBOMapping) error
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.PIQBOMapping, error)
}

type jobPIMappingRepository struct {
	collection *mongo.Collection
}

func NewJobPIMappingRepository(db *mongo.Database) JobPIMappingRepository {
	return &jobPIMappingRepository{collection: db.Collection("job_pi_mappings")}
}

func (r *jobPIMappingRepository) Create(ctx context.Context, mapping *models.JobPIMapping) error {
	mapping.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, mapping)
	return err
}

func (r *jobPIMappingRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.JobPIMapping, error) {
	filter := bson.M{"owner_id": ownerID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []models.JobPIMapping
	if err = cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}

	return mappings, nil
}

func (r *jobPIMappingRepository) GetByJob(ctx context.Context, jobID primitive.ObjectID) ([]models.JobPIMapping, error) {
	filter := bson.M{"job_id": jobID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []models.JobPIMapping
	if err = cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}

	return mappings, nil
}

type piQBOMappingRepository struct {
	collection *mongo.Collection
}

func NewPIQBOMappingRepository(db *mongo.Database) PIQBOMappingRepository {
	return &piQBOMappingRepository{collection: db.Collection("pi_qbo_mappings")}
}

func (r *piQBOMappingRepository) Create(ctx context.Context, mapping *models.PIQBOMapping) error {
	mapping.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, mapping)
	return err
}

func (r *piQBOMappingRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.PIQBOMapping, error) {
	filter := bson.M{"owner_id": ownerID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []models.PIQBOMapping
	if err = cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}

	return mappings, nil
}
