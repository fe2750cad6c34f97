package models

// Status is the urgency tier of a maintenance service record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusOverdue  Status = "overdue"
)

// Severity ranks the comparable tiers for worst-of aggregation.
// Pending means "nothing scheduled" and ranks with ok; it is never
// reported as an equipment-level status.
func (s Status) Severity() int {
	switch s {
	case StatusOverdue:
		return 3
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// IsUrgent reports whether the tier should trigger an alert.
func (s Status) IsUrgent() bool {
	return s == StatusCritical || s == StatusOverdue
}

// IsValidStatus checks if a status tier is one of the known values.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusOK, StatusWarning, StatusCritical, StatusOverdue:
		return true
	default:
		return false
	}
}
