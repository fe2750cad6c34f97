package schedule

import (
	"errors"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

var (
	// ErrUnknownServiceType signals a service type id that is not in the
	// catalog. The catalog is fixed at startup, so this is a caller bug,
	// not recoverable user input.
	ErrUnknownServiceType = errors.New("unknown service type")

	// ErrNoServiceRecord signals an equipment unit missing the record for
	// a catalog service type. Records are created as a full set, so a gap
	// indicates corrupted data.
	ErrNoServiceRecord = errors.New("equipment has no record for service type")
)

// ServiceType is one entry of the maintenance catalog.
type ServiceType struct {
	ID           string
	Label        string
	IntervalDays int
	Periodicity  string
}

// Catalog is the fixed, ordered set of maintenance service types. It is
// built once at startup and injected into everything that needs it.
type Catalog struct {
	types []ServiceType
	byID  map[string]ServiceType
}

// NewCatalog builds a catalog from an ordered list of service types.
func NewCatalog(types []ServiceType) Catalog {
	byID := make(map[string]ServiceType, len(types))
	ordered := make([]ServiceType, len(types))
	copy(ordered, types)
	for _, st := range ordered {
		byID[st.ID] = st
	}
	return Catalog{types: ordered, byID: byID}
}

// DefaultCatalog returns the nine soot-blower maintenance service types
// used by the reference deployment.
func DefaultCatalog() Catalog {
	return NewCatalog([]ServiceType{
		{ID: "lubrication", Label: "Lubrication", IntervalDays: 30, Periodicity: "Monthly"},
		{ID: "nozzle_inspection", Label: "Nozzle inspection", IntervalDays: 90, Periodicity: "Quarterly"},
		{ID: "limit_switch_check", Label: "Limit switch check", IntervalDays: 90, Periodicity: "Quarterly"},
		{ID: "lance_tube_inspection", Label: "Lance tube inspection", IntervalDays: 180, Periodicity: "Semiannual"},
		{ID: "packing_replacement", Label: "Packing replacement", IntervalDays: 180, Periodicity: "Semiannual"},
		{ID: "gearbox_oil_change", Label: "Gearbox oil change", IntervalDays: 365, Periodicity: "Annual"},
		{ID: "motor_electrical_test", Label: "Motor electrical test", IntervalDays: 365, Periodicity: "Annual"},
		{ID: "steam_valve_overhaul", Label: "Steam valve overhaul", IntervalDays: 730, Periodicity: "Biennial"},
		{ID: "general_overhaul", Label: "General overhaul", IntervalDays: 1095, Periodicity: "Every 3 years"},
	})
}

// Types returns the catalog entries in order.
func (c Catalog) Types() []ServiceType {
	out := make([]ServiceType, len(c.types))
	copy(out, c.types)
	return out
}

// Len returns the number of service types in the catalog.
func (c Catalog) Len() int {
	return len(c.types)
}

// Lookup finds a service type by id.
func (c Catalog) Lookup(id string) (ServiceType, bool) {
	st, ok := c.byID[id]
	return st, ok
}

// NewRecords builds the full set of service records for a freshly created
// equipment unit, one pending record per catalog entry, in catalog order.
func (c Catalog) NewRecords() []models.ServiceRecord {
	records := make([]models.ServiceRecord, 0, len(c.types))
	for _, st := range c.types {
		records = append(records, models.ServiceRecord{
			TypeID:      st.ID,
			Label:       st.Label,
			Periodicity: st.Periodicity,
			Status:      models.StatusPending,
		})
	}
	return records
}
