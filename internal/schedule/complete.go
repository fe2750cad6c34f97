package schedule

import (
	"fmt"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

// Complete records that a service was performed today: last-done becomes
// today, next-due becomes today plus the type's catalog interval, and the
// unit's derived chain is recomputed. The input unit is not mutated. The
// returned Override must be persisted by the caller so a later baseline
// re-import does not regress the completion.
func (c Catalog) Complete(clock Clock, unit models.Equipment, typeID string) (models.Equipment, models.Override, error) {
	serviceType, ok := c.Lookup(typeID)
	if !ok {
		return models.Equipment{}, models.Override{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, typeID)
	}

	now := clock.Now()
	today := Truncate(now)
	nextDue := today.AddDate(0, 0, serviceType.IntervalDays)

	found := false
	services := make([]models.ServiceRecord, len(unit.Services))
	for i, record := range unit.Services {
		if record.TypeID == typeID {
			found = true
			lastDone, due := today, nextDue
			record.LastDone = &lastDone
			record.NextDue = &due
		}
		services[i] = record
	}
	if !found {
		return models.Equipment{}, models.Override{}, fmt.Errorf("%w: %q on %q", ErrNoServiceRecord, typeID, unit.Tag)
	}

	unit.Services = services
	unit = Recompute(clock, unit)

	lastDone, due := today, nextDue
	override := models.Override{
		EquipmentTag:  models.NormalizeTag(unit.Tag),
		ServiceTypeID: typeID,
		LastDone:      &lastDone,
		NextDue:       &due,
		UpdatedAt:     now,
	}
	return unit, override, nil
}
