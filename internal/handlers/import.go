package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/brdiniz/blower-maintenance/internal/db"
	"github.com/brdiniz/blower-maintenance/internal/importer"
	"github.com/brdiniz/blower-maintenance/internal/schedule"
)

// ImportHandler ingests fleet spreadsheets and exports the current fleet.
type ImportHandler struct {
	parser    *importer.Parser
	clock     schedule.Clock
	equipment db.EquipmentCollection
	overrides db.OverrideCollection
}

// NewImportHandler creates a new import/export handler.
func NewImportHandler(parser *importer.Parser, clock schedule.Clock, equipment db.EquipmentCollection, overrides db.OverrideCollection) *ImportHandler {
	return &ImportHandler{
		parser:    parser,
		clock:     clock,
		equipment: equipment,
		overrides: overrides,
	}
}

// Import parses an uploaded xlsx workbook as the new baseline, re-applies
// the persisted overrides on top of it, and replaces the stored fleet.
// Overrides win over the spreadsheet: user edits survive a re-import.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	baseline, err := h.parser.ParseWorkbook(file)
	if err != nil {
		http.Error(w, "Failed to parse workbook: "+err.Error(), http.StatusBadRequest)
		return
	}

	overrides, err := h.overrides.FindAllOverrides(r.Context())
	if err != nil {
		http.Error(w, "Failed to load overrides", http.StatusInternalServerError)
		return
	}
	merged := schedule.ApplyOverrides(h.clock, baseline, overrides)

	if err := h.equipment.ReplaceAllEquipment(r.Context(), merged); err != nil {
		http.Error(w, "Failed to store fleet", http.StatusInternalServerError)
		return
	}

	log.WithField("units", len(merged)).Info("fleet imported")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"imported_units":    len(merged),
		"applied_overrides": len(overrides),
	})
}

// Export streams the current fleet as an xlsx workbook in the same layout
// the importer accepts.
func (h *ImportHandler) Export(w http.ResponseWriter, r *http.Request) {
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

	f, err := h.parser.BuildWorkbook(merged)
	if err != nil {
		http.Error(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="fleet.xlsx"`)
	if err := f.Write(w); err != nil {
		log.WithError(err).Error("failed to stream workbook")
	}
}
