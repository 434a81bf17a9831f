package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is an atomic, completable unit of work belonging to one Job.
// Its position in the Job's TaskIDs sequence is its ordering.
type Task struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID       string             `json:"owner_id" bson:"owner_id"`
	JobID         primitive.ObjectID `json:"job_id" bson:"job_id"`
	Title         string             `json:"title" bson:"title" validate:"required"`
	Notes         string             `json:"notes" bson:"notes"`
	ScheduledDate time.Time          `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty"`
	Completed     bool               `json:"completed" bson:"completed"`
	IsDeleted     bool               `json:"is_deleted" bson:"is_deleted"`
	Metadata      Metadata           `json:"metadata" bson:"metadata"`
}

// Pending reports whether the task is still actionable.
func (t *Task) Pending() bool {
	return !t.Completed && !t.IsDeleted
}
