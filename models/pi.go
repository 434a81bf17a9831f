package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PI is a Progress Indicator: a metric that feeds one or more QBOs.
type PI struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID        string             `json:"owner_id" bson:"owner_id"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	BeginningValue float64            `json:"beginning_value" bson:"beginning_value"`
	TargetValue    float64            `json:"target_value" bson:"target_value"`
	Notes          string             `json:"notes" bson:"notes"`
	IsDeleted      bool               `json:"is_deleted" bson:"is_deleted"`
	Metadata       Metadata           `json:"metadata" bson:"metadata"`
}

func (p *PI) ProgressRange() float64 {
	return p.TargetValue - p.BeginningValue
}
