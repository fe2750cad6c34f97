package schedule

import (
	"time"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

type overrideKey struct {
	tag    string
	typeID string
}

// ApplyOverrides merges persisted override records into a freshly imported
// baseline. The baseline is never mutated; every returned unit is a copy
// with its derived chain (day offsets, tiers, aggregate status, aggregate
// next-due) recomputed. A record with no override keeps its baseline
// dates; an override with nil dates clears them. The operation is
// idempotent.
func ApplyOverrides(clock Clock, baseline []models.Equipment, overrides []models.Override) []models.Equipment {
	index := make(map[overrideKey]models.Override, len(overrides))
	for _, o := range overrides {
		index[overrideKey{models.NormalizeTag(o.EquipmentTag), o.ServiceTypeID}] = o
	}

	merged := make([]models.Equipment, len(baseline))
	for i, unit := range baseline {
		tag := models.NormalizeTag(unit.Tag)
		services := make([]models.ServiceRecord, len(unit.Services))
		for j, record := range unit.Services {
			if o, ok := index[overrideKey{tag, record.TypeID}]; ok {
				record.LastDone = copyDate(o.LastDone)
				record.NextDue = copyDate(o.NextDue)
			}
			record.DaysRemaining = DaysUntil(clock, record.NextDue)
			record.Status = Classify(record.DaysRemaining)
			services[j] = record
		}
		unit.Services = services
		unit.OverallStatus = Aggregate(services)
		unit.NextDue, unit.DaysRemaining = NextDue(clock, services)
		merged[i] = unit
	}
	return merged
}

// Recompute reconciles one unit's derived chain without changing any
// dates. Every mutation path runs its result through this before the unit
// is stored or returned.
func Recompute(clock Clock, unit models.Equipment) models.Equipment {
	services := make([]models.ServiceRecord, len(unit.Services))
	for i, record := range unit.Services {
		record.DaysRemaining = DaysUntil(clock, record.NextDue)
		record.Status = Classify(record.DaysRemaining)
		services[i] = record
	}
	unit.Services = services
	unit.OverallStatus = Aggregate(services)
	unit.NextDue, unit.DaysRemaining = NextDue(clock, services)
	return unit
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := *t
	return &d
}
