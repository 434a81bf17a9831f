package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QBO is a Quarterly Business Objective: a measurable goal with a point
// weight that the impact engine converts into a per-unit-of-progress rate.
type QBO struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID        string             `json:"owner_id" bson:"owner_id"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	BeginningValue float64            `json:"beginning_value" bson:"beginning_value"`
	CurrentValue   float64            `json:"current_value" bson:"current_value"`
	TargetValue    float64            `json:"target_value" bson:"target_value"`
	Points         float64            `json:"points" bson:"points" validate:"min=0,max=100"`
	Deadline       time.Time          `json:"deadline" bson:"deadline"`
	IsDeleted      bool               `json:"is_deleted" bson:"is_deleted"`
	Metadata       Metadata           `json:"metadata" bson:"metadata"`
}

// ProgressRange is the span the QBO is expected to move over the quarter.
// A zero range makes the points-per-unit rate undefined; the engine skips it.
func (q *QBO) ProgressRange() float64 {
	return q.TargetValue - q.BeginningValue
}
