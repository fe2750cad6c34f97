package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/brdiniz/blower-maintenance/internal/alerts"
	"github.com/brdiniz/blower-maintenance/internal/db"
	"github.com/brdiniz/blower-maintenance/internal/models"
	"github.com/brdiniz/blower-maintenance/internal/schedule"
)

// EquipmentHandler serves the equipment schedule endpoints. Every read
// merges the persisted overrides into the stored baseline before
// responding, so clients always see a consistent derived chain.
type EquipmentHandler struct {
	catalog   schedule.Catalog
	clock     schedule.Clock
	equipment db.EquipmentCollection
	overrides db.OverrideCollection
	publisher alerts.Publisher // nil disables alerting
}

// NewEquipmentHandler creates a new equipment handler.
func NewEquipmentHandler(catalog schedule.Catalog, clock schedule.Clock, equipment db.EquipmentCollection, overrides db.OverrideCollection, publisher alerts.Publisher) *EquipmentHandler {
	return &EquipmentHandler{
		catalog:   catalog,
		clock:     clock,
		equipment: equipment,
		overrides: overrides,
		publisher: publisher,
	}
}

// CreateEquipmentRequest is the payload for registering a new unit.
type CreateEquipmentRequest struct {
	Tag          string  `json:"tag"`
	Area         string  `json:"area"`
	Type         string  `json:"type"`
	Floor        int     `json:"floor"`
	HeightMeters float64 `json:"height_meters"`
	Description  string  `json:"description"`
}

// ServiceDatesRequest is the payload for a user date edit. Empty strings
// clear the corresponding date. Dates use the 2006-01-02 layout.
type ServiceDatesRequest struct {
	LastDone string `json:"last_done"`
	NextDue  string `json:"next_due"`
}

// List returns the whole fleet with overrides merged.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.equipment.FindAllEquipment(r.Context())
	if err != nil {
		http.Error(w, "Failed to load equipment", http.StatusInternalServerError)
		return
	}
	overrides, err := h.overrides.FindAllOverrides(r.Context())
	if err != nil {
		http.Error(w, "Failed to load overrides", http.StatusInternalServerError)
		return
	}

	merged := schedule.ApplyOverrides(h.clock, units, overrides)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(merged)
}

// Get returns one unit with its overrides merged.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	unit, ok := h.loadMerged(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(unit)
}

// Create registers a new equipment unit with the full pending record set.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	tag := models.NormalizeTag(req.Tag)
	if tag == "" {
		http.Error(w, "Tag is required", http.StatusBadRequest)
		return
	}
	if existing, err := h.equipment.FindEquipmentByTag(r.Context(), tag); err == nil && existing != nil {
		http.Error(w, "Equipment tag already exists", http.StatusConflict)
		return
	}

	unit := models.Equipment{
		Tag:          tag,
		Area:         req.Area,
		Type:         req.Type,
		Floor:        req.Floor,
		HeightMeters: req.HeightMeters,
		Description:  req.Description,
		Services:     h.catalog.NewRecords(),
	}
	unit = schedule.Recompute(h.clock, unit)

	if err := h.equipment.InsertEquipment(r.Context(), unit); err != nil {
		http.Error(w, "Failed to create equipment", http.StatusInternalServerError)
		return
	}

	log.WithField("tag", tag).Info("equipment created")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(unit)
}

// Delete removes a unit and its overrides. Removal is whole-unit.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	if err := h.equipment.DeleteEquipment(r.Context(), tag); err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}
	if err := h.overrides.DeleteOverridesByTag(r.Context(), tag); err != nil {
		http.Error(w, "Failed to delete overrides", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateServiceDates applies a user date edit to one service record. The
// edit is persisted as an override first, then the unit is re-merged so
// the response and the stored document stay consistent with it.
func (h *EquipmentHandler) UpdateServiceDates(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	typeID := r.PathValue("typeID")

	if _, ok := h.catalog.Lookup(typeID); !ok {
		http.Error(w, fmt.Sprintf("Unknown service type %q", typeID), http.StatusBadRequest)
		return
	}

	var req ServiceDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	lastDone, err := parseDateField(req.LastDone)
	if err != nil {
		http.Error(w, "Invalid last_done date", http.StatusBadRequest)
		return
	}
	nextDue, err := parseDateField(req.NextDue)
	if err != nil {
		http.Error(w, "Invalid next_due date", http.StatusBadRequest)
		return
	}

	if _, err := h.equipment.FindEquipmentByTag(r.Context(), tag); err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	override := models.Override{
		EquipmentTag:  models.NormalizeTag(tag),
		ServiceTypeID: typeID,
		LastDone:      lastDone,
		NextDue:       nextDue,
	}
	if err := h.overrides.UpsertOverride(r.Context(), override); err != nil {
		http.Error(w, "Failed to save override", http.StatusInternalServerError)
		return
	}

	unit, ok := h.storeMerged(w, r, tag)
	if !ok {
		return
	}
	h.alertIfUrgent(unit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(unit)
}

// Complete marks a service as done today: recurrence sets the next due
// date from the catalog interval and the emitted override is persisted so
// a later re-import cannot regress the completion.
func (h *EquipmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	typeID := r.PathValue("typeID")

	unit, ok := h.loadMerged(w, r)
	if !ok {
		return
	}

	updated, override, err := h.catalog.Complete(h.clock, unit, typeID)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownServiceType) || errors.Is(err, schedule.ErrNoServiceRecord) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to complete service", http.StatusInternalServerError)
		return
	}

	if err := h.overrides.UpsertOverride(r.Context(), override); err != nil {
		http.Error(w, "Failed to save override", http.StatusInternalServerError)
		return
	}
	if err := h.equipment.UpdateEquipment(r.Context(), tag, updated); err != nil {
		http.Error(w, "Failed to update equipment", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{"tag": updated.Tag, "service": typeID}).Info("service completed")
	h.alertIfUrgent(updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// loadMerged fetches the tagged unit and returns it with its overrides
// applied; writes the error response itself on failure.
func (h *EquipmentHandler) loadMerged(w http.ResponseWriter, r *http.Request) (models.Equipment, bool) {
	tag := r.PathValue("tag")
	unit, err := h.equipment.FindEquipmentByTag(r.Context(), tag)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return models.Equipment{}, false
	}
	overrides, err := h.overrides.FindOverridesByTag(r.Context(), tag)
	if err != nil {
		http.Error(w, "Failed to load overrides", http.StatusInternalServerError)
		return models.Equipment{}, false
	}
	merged := schedule.ApplyOverrides(h.clock, []models.Equipment{*unit}, overrides)
	return merged[0], true
}

// storeMerged re-merges one unit against its persisted overrides and
// writes the result back so the stored document never goes stale.
func (h *EquipmentHandler) storeMerged(w http.ResponseWriter, r *http.Request, tag string) (models.Equipment, bool) {
	unit, err := h.equipment.FindEquipmentByTag(r.Context(), tag)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return models.Equipment{}, false
	}
	overrides, err := h.overrides.FindOverridesByTag(r.Context(), tag)
	if err != nil {
		http.Error(w, "Failed to load overrides", http.StatusInternalServerError)
		return models.Equipment{}, false
	}
	merged := schedule.ApplyOverrides(h.clock, []models.Equipment{*unit}, overrides)[0]
	if err := h.equipment.UpdateEquipment(r.Context(), tag, merged); err != nil {
		http.Error(w, "Failed to update equipment", http.StatusInternalServerError)
		return models.Equipment{}, false
	}
	return merged, true
}

func (h *EquipmentHandler) alertIfUrgent(unit models.Equipment) {
	if h.publisher == nil || !unit.OverallStatus.IsUrgent() {
		return
	}
	alert := alerts.AlertFor(unit, h.clock.Now())
	if err := h.publisher.PublishEquipmentAlert(alert); err != nil {
		log.WithError(err).WithField("tag", unit.Tag).Warn("failed to publish alert")
	}
}

func parseDateField(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
