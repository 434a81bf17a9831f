package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreatePlannerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Every engine read is owner-scoped and filtered on is_deleted.
	ownerScoped := []string{"qbos", "pis", "jobs", "tasks", "job_pi_mappings", "pi_qbo_mappings"}
	for _, name := range ownerScoped {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
			Options: options.Index().SetName("idx_owner_id_is_deleted"),
		})
		if err != nil {
			return fmt.Errorf("failed to create owner index on %s: %v", name, err)
		}
	}

	// SEQUENCING: task lookups per job
	// Used by: TaskRepository.GetByJob on every sequencing transition
	_, err := db.Collection("tasks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "job_id", Value: 1},
			{Key: "is_deleted", Value: 1},
		},
		Options: options.Index().SetName("idx_job_id_is_deleted"),
	})
	if err != nil {
		return fmt.Errorf("failed to create task job index: %v", err)
	}

	// DUPLICATION: mapping lookups per source job
	// Used by: JobPIMappingRepository.GetByJob
	_, err = db.Collection("job_pi_mappings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "job_id", Value: 1},
			{Key: "is_deleted", Value: 1},
		},
		Options: options.Index().SetName("idx_job_id_is_deleted"),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapping job index: %v", err)
	}

	fmt.Println("Planner indexes created successfully")
	return nil
}
