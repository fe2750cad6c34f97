package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

func TestComplete_SetsRecurrence(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)}
	catalog := DefaultCatalog()
	unit := baselineUnit(clock, "SPD-131", map[string]int{"gearbox_oil_change": -30})

	updated, override, err := catalog.Complete(clock, unit, "gearbox_oil_change")
	assert.NoError(t, err)

	today := Truncate(clock.Now())
	expectedDue := today.AddDate(0, 0, 365)

	var rec models.ServiceRecord
	for _, r := range updated.Services {
		if r.TypeID == "gearbox_oil_change" {
			rec = r
		}
	}
	assert.Equal(t, today, *rec.LastDone)
	assert.Equal(t, expectedDue, *rec.NextDue)
	assert.Equal(t, 365, *rec.DaysRemaining)
	assert.Equal(t, models.StatusOK, rec.Status)
	assertConsistent(t, clock, updated)

	assert.Equal(t, "SPD-131", override.EquipmentTag)
	assert.Equal(t, "gearbox_oil_change", override.ServiceTypeID)
	assert.Equal(t, today, *override.LastDone)
	assert.Equal(t, expectedDue, *override.NextDue)
}

func TestComplete_ShortIntervalStaysCritical(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)}
	catalog := NewCatalog([]ServiceType{
		{ID: "filter_swap", Label: "Filter swap", IntervalDays: 5, Periodicity: "Weekly"},
	})
	unit := models.Equipment{Tag: "SPD-001", Services: catalog.NewRecords()}
	unit = Recompute(clock, unit)

	updated, _, err := catalog.Complete(clock, unit, "filter_swap")
	assert.NoError(t, err)
	assert.Equal(t, 5, *updated.Services[0].DaysRemaining)
	assert.Equal(t, models.StatusCritical, updated.Services[0].Status)
	assert.Equal(t, models.StatusCritical, updated.OverallStatus)
}

func TestComplete_DoesNotMutateInput(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)}
	catalog := DefaultCatalog()
	unit := baselineUnit(clock, "SPD-131", map[string]int{"lubrication": 12})
	snapshot := baselineUnit(clock, "SPD-131", map[string]int{"lubrication": 12})

	_, _, err := catalog.Complete(clock, unit, "lubrication")
	assert.NoError(t, err)
	assert.Equal(t, snapshot, unit)
}

func TestComplete_UnknownServiceType(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)}
	catalog := DefaultCatalog()
	unit := baselineUnit(clock, "SPD-131", nil)

	_, _, err := catalog.Complete(clock, unit, "hull_polish")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownServiceType)
}

func TestComplete_MissingRecord(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)}
	catalog := DefaultCatalog()

	// Catalog knows the type but the unit's record set is corrupt.
	unit := models.Equipment{Tag: "SPD-131"}
	_, _, err := catalog.Complete(clock, unit, "lubrication")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrNoServiceRecord)
}

func TestComplete_UpdatesAggregate(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)}
	catalog := DefaultCatalog()
	unit := baselineUnit(clock, "SPD-131", map[string]int{"lubrication": -8})
	assert.Equal(t, models.StatusOverdue, unit.OverallStatus)

	updated, _, err := catalog.Complete(clock, unit, "lubrication")
	assert.NoError(t, err)
	// 30-day interval lands in the warning band; nothing else scheduled.
	assert.Equal(t, models.StatusWarning, updated.OverallStatus)
	assert.Equal(t, 30, *updated.DaysRemaining)
}
