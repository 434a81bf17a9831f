package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// JobPIMapping links a Job to a PI it moves. PIImpactValue is how much of the
// PI's target this Job is responsible for; PITarget snapshots the PI's target
// range at mapping time. DuplicatedFrom points at the mapping this one was
// copied from during job duplication, for provenance.
type JobPIMapping struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	OwnerID        string              `json:"owner_id" bson:"owner_id"`
	JobID          primitive.ObjectID  `json:"job_id" bson:"job_id"`
	PIID           primitive.ObjectID  `json:"pi_id" bson:"pi_id" validate:"required"`
	PIImpactValue  float64             `json:"pi_impact_value" bson:"pi_impact_value"`
	PITarget       float64             `json:"pi_target" bson:"pi_target"`
	DuplicatedFrom *primitive.ObjectID `json:"duplicated_from,omitempty" bson:"duplicated_from,omitempty"`
	IsDeleted      bool                `json:"is_deleted" bson:"is_deleted"`
	Metadata       Metadata            `json:"metadata" bson:"metadata"`
}

// PIQBOMapping links a PI to a QBO it measures. QBOImpact is how much of the
// QBO's target range this PI is responsible for.
type PIQBOMapping struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID   string             `json:"owner_id" bson:"owner_id"`
	PIID      primitive.ObjectID `json:"pi_id" bson:"pi_id" validate:"required"`
	QBOID     primitive.ObjectID `json:"qbo_id" bson:"qbo_id" validate:"required"`
	QBOImpact float64            `json:"qbo_impact" bson:"qbo_impact"`
	IsDeleted bool               `json:"is_deleted" bson:"is_deleted"`
	Metadata  Metadata           `json:"metadata" bson:"metadata"`
}
