package models

import "time"

// Request bodies for the sequencing and duplication operations. Entity
// creation decodes straight into the entity structs; these cover the
// operations whose payload is not an entity.

type CreateTaskRequest struct {
	Title         string    `json:"title" validate:"required"`
	Notes         string    `json:"notes"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

// SetNextTaskRequest carries the hex id of the task to designate as next,
// or null to clear the designation.
type SetNextTaskRequest struct {
	TaskID *string `json:"task_id"`
}

type ReorderTasksRequest struct {
	TaskIDs []string `json:"task_ids" validate:"required,min=1,dive,required"`
}

// DuplicateJobRequest carries the override fields for the copy; empty
// fields fall back to the source job's values.
type DuplicateJobRequest struct {
	Title   string    `json:"title"`
	Notes   string    `json:"notes"`
	DueDate time.Time `json:"due_date"`
}
