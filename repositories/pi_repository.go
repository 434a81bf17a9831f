package repository

import (
	"context"
	"errors"

	"impactplanner/apperrors"
	"impactplanner/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PIRepository interface {
	Create(ctx context.Context, pi *models.PI) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PI, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.PI, error)
}

type piRepository struct {
	collection *mongo.Collection
}

func NewPIRepository(db *mongo.Database) PIRepository {
	return &piRepository{collection: db.Collection("pis")}
}

func (r *piRepository) Create(ctx context.Context, pi *models.PI) error {
	pi.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, pi)
	return err
}

func (r *piRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PI, error) {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}

	var pi models.PI
	err := r.collection.FindOne(ctx, filter).Decode(&pi)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("PI", id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return &pi, nil
}

func (r *piRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.PI, error) {
	filter := bson.M{"owner_id": ownerID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pis []models.PI
	if err = cursor.All(ctx, &pis); err != nil {
		return nil, err
	}

	return pis, nil
}
