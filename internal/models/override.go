package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Override is a persisted user correction to one service record's dates,
// keyed by (equipment tag, service type). Once a user has edited a record
// the override is the source of truth for its dates; the imported baseline
// is only a fallback for pairs with no override. Nil dates are meaningful:
// they clear the corresponding baseline date.
type Override struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EquipmentTag  string             `bson:"equipment_tag" json:"equipment_tag"`
	ServiceTypeID string             `bson:"service_type_id" json:"service_type_id"`
	LastDone      *time.Time         `bson:"last_done,omitempty" json:"last_done,omitempty"`
	NextDue       *time.Time         `bson:"next_due,omitempty" json:"next_due,omitempty"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
