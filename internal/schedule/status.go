package schedule

import (
	"time"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

// Classify maps a calendar-day offset to an urgency tier. A nil offset
// means no date is set and classifies as pending.
func Classify(days *int) models.Status {
	switch {
	case days == nil:
		return models.StatusPending
	case *days < 0:
		return models.StatusOverdue
	case *days <= 7:
		return models.StatusCritical
	case *days <= 30:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}

// Aggregate reduces per-service tiers to one equipment-level tier, worst
// first: overdue, critical, warning, ok. Pending records count as ok
// since nothing scheduled is not urgent. An empty slice is ok.
func Aggregate(records []models.ServiceRecord) models.Status {
	worst := models.StatusOK
	for _, r := range records {
		if r.Status.Severity() > worst.Severity() {
			worst = r.Status
		}
	}
	return worst
}

// NextDue selects the earliest next-due date across the records, past
// dates included, and re-derives its day offset. Records without a date
// are skipped; if none carry one the result is (nil, nil). On a tie the
// first record in slice (catalog) order wins.
func NextDue(clock Clock, records []models.ServiceRecord) (*time.Time, *int) {
	var earliest *time.Time
	for i := range records {
		due := records[i].NextDue
		if due == nil {
			continue
		}
		if earliest == nil || due.Before(*earliest) {
			earliest = due
		}
	}
	if earliest == nil {
		return nil, nil
	}
	due := *earliest
	return &due, DaysUntil(clock, &due)
}
