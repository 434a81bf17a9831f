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

type QBORepository interface {
	Create(ctx context.Context, qbo *models.QBO) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.QBO, error)
	GetAllByOwner(ctx context.Context, ownerID string) ([]models.QBO, error)
}

type qboRepository struct {
	collection *mongo.Collection
}

func NewQBORepository(db *mongo.Database) QBORepository {
	return &qboRepository{collection: db.Collection("qbos")}
}

func (r *qboRepository) Create(ctx context.Context, qbo *models.QBO) error {
	qbo.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, qbo)
	return err
}

func (r *qboRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.QBO, error) {
	filter := bson.M{"_id": id, "is_deleted": bson.M{"$ne": true}}

	var qbo models.QBO
	err := r.collection.FindOne(ctx, filter).Decode(&qbo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("QBO", id.Hex())
	}
	if err != nil {
		return nil, err
	}

	return &qbo, nil
}

func (r *qboRepository) GetAllByOwner(ctx context.Context, ownerID string) ([]models.QBO, error) {
	filter := bson.M{"owner_id": ownerID, "is_deleted": bson.M{"$ne": true}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var qbos []models.QBO
	if err = cursor.All(ctx, &qbos); err != nil {
		return nil, err
	}

	return qbos, nil
}
