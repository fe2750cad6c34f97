package db

import (
	"context"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

// EquipmentCollection defines the interface for equipment data operations.
type EquipmentCollection interface {
	InsertEquipment(ctx context.Context, unit models.Equipment) error
	FindAllEquipment(ctx context.Context) ([]models.Equipment, error)
	FindEquipmentByTag(ctx context.Context, tag string) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, tag string, unit models.Equipment) error
	DeleteEquipment(ctx context.Context, tag string) error
	ReplaceAllEquipment(ctx context.Context, units []models.Equipment) error
}

// OverrideCollection defines the interface for persisted schedule override
// records, upsert-keyed by (equipment tag, service type).
type OverrideCollection interface {
	UpsertOverride(ctx context.Context, override models.Override) error
	FindAllOverrides(ctx context.Context) ([]models.Override, error)
	FindOverridesByTag(ctx context.Context, tag string) ([]models.Override, error)
	DeleteOverridesByTag(ctx context.Context, tag string) error
}
