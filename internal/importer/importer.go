// Package importer parses fleet spreadsheets into baseline equipment
// collections and writes the current fleet back out. Malformed or blank
// date cells are normalized to nil here so the schedule engine only ever
// sees real dates.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/brdiniz/blower-maintenance/internal/models"
	"github.com/brdiniz/blower-maintenance/internal/schedule"
)

// Fixed identity columns; date columns are derived from the catalog as
// "<type id>_last_done" / "<type id>_next_due".
var identityColumns = []string{"tag", "area", "type", "floor", "height", "description"}

// Date layouts accepted on import. Brazilian day-first format comes from
// the plant's original planning sheets.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// Parser turns an uploaded fleet workbook into a baseline equipment list
// with the derived schedule chain already computed.
type Parser struct {
	catalog schedule.Catalog
	clock   schedule.Clock
}

// NewParser creates a spreadsheet parser for the given catalog.
func NewParser(catalog schedule.Catalog, clock schedule.Clock) *Parser {
	return &Parser{catalog: catalog, clock: clock}
}

// ParseWorkbook reads the first sheet of an xlsx workbook. The header row
// maps column names to positions, so column order does not matter. Rows
// without a tag are skipped.
func (p *Parser) ParseWorkbook(r io.Reader) ([]models.Equipment, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["tag"]; !ok {
		return nil, fmt.Errorf("sheet %q has no tag column", sheets[0])
	}

	units := make([]models.Equipment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		tag := models.NormalizeTag(cell(row, columns, "tag"))
		if tag == "" {
			continue
		}

		unit := models.Equipment{
			Tag:         tag,
			Area:        cell(row, columns, "area"),
			Type:        cell(row, columns, "type"),
			Description: cell(row, columns, "description"),
			Services:    p.catalog.NewRecords(),
		}
		if floor, err := strconv.Atoi(cell(row, columns, "floor")); err == nil {
			unit.Floor = floor
		}
		if height, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, columns, "height"), ",", "."), 64); err == nil {
			unit.HeightMeters = height
		}

		for i := range unit.Services {
			typeID := unit.Services[i].TypeID
			unit.Services[i].LastDone = parseDate(cell(row, columns, typeID+"_last_done"))
			unit.Services[i].NextDue = parseDate(cell(row, columns, typeID+"_next_due"))
		}

		units = append(units, schedule.Recompute(p.clock, unit))
	}
	return units, nil
}

// BuildWorkbook writes the fleet into a workbook in the same layout the
// parser reads, so exports can be edited and re-imported.
func (p *Parser) BuildWorkbook(units []models.Equipment) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := append([]string{}, identityColumns...)
	for _, st := range p.catalog.Types() {
		headers = append(headers, st.ID+"_last_done", st.ID+"_next_due")
	}
	for i, h := range headers {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cellName, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, unit := range units {
		values := []interface{}{
			unit.Tag, unit.Area, unit.Type, unit.Floor, unit.HeightMeters, unit.Description,
		}
		for _, rec := range unit.Services {
			values = append(values, formatDate(rec.LastDone), formatDate(rec.NextDue))
		}
		for colIdx, v := range values {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	// Unparseable cells become "no date set" rather than poisoning the row.
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
