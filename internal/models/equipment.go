package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceRecord is one maintenance service instance on an equipment unit,
// one per catalog service type. DaysRemaining and Status are derived from
// NextDue and must never be set independently.
type ServiceRecord struct {
	TypeID        string     `bson:"type_id" json:"type_id"`
	Label         string     `bson:"label" json:"label"`
	Periodicity   string     `bson:"periodicity" json:"periodicity"`
	LastDone      *time.Time `bson:"last_done,omitempty" json:"last_done,omitempty"`
	NextDue       *time.Time `bson:"next_due,omitempty" json:"next_due,omitempty"`
	DaysRemaining *int       `bson:"days_remaining,omitempty" json:"days_remaining,omitempty"`
	Status        Status     `bson:"status" json:"status"`
}

// Equipment represents one soot blower unit and its maintenance schedule.
type Equipment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tag          string             `bson:"tag" json:"tag"`
	Area         string             `bson:"area" json:"area"`         // e.g. "Caldeira Norte"
	Type         string             `bson:"type" json:"type"`         // "Rotativo" or "Retrátil"
	Floor        int                `bson:"floor" json:"floor"`       // installation elevation index
	HeightMeters float64            `bson:"height_meters" json:"height_meters"`
	Description  string             `bson:"description" json:"description"`

	// Services always holds one record per catalog service type.
	Services []ServiceRecord `bson:"services" json:"services"`

	// Derived fields, recomputed by the schedule engine on every change.
	OverallStatus Status     `bson:"overall_status" json:"overall_status"`
	NextDue       *time.Time `bson:"next_due,omitempty" json:"next_due,omitempty"`
	DaysRemaining *int       `bson:"days_remaining,omitempty" json:"days_remaining,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NormalizeTag uppercases and trims an equipment tag so that lookups and
// override keys match regardless of how the tag was typed or imported.
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}
