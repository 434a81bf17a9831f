package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job is a unit of work contributing to one or more PIs, composed of Tasks.
// TaskIDs holds the user-facing ordering; NextTaskID is the cursor onto the
// task the owner should work on next (nil when no pending task exists).
// Impact is derived by the propagation engine and never edited directly.
type Job struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	OwnerID    string               `json:"owner_id" bson:"owner_id"`
	Title      string               `json:"title" bson:"title" validate:"required"`
	Notes      string               `json:"notes" bson:"notes"`
	DueDate    time.Time            `json:"due_date" bson:"due_date"`
	TaskIDs    []primitive.ObjectID `json:"task_ids" bson:"task_ids"`
	NextTaskID *primitive.ObjectID  `json:"next_task_id,omitempty" bson:"next_task_id,omitempty"`
	Impact     float64              `json:"impact" bson:"impact"`
	IsDone     bool                 `json:"is_done" bson:"is_done"`
	IsDeleted  bool                 `json:"is_deleted" bson:"is_deleted"`
	Metadata   Metadata             `json:"metadata" bson:"metadata"`
}
