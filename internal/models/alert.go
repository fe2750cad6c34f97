package models

import "time"

// Alert is the message published when an equipment unit sits in an urgent
// tier after a schedule change.
type Alert struct {
	EquipmentTag  string     `json:"equipment_tag"`
	Area          string     `json:"area"`
	Status        Status     `json:"status"`
	NextDue       *time.Time `json:"next_due,omitempty"`
	DaysRemaining *int       `json:"days_remaining,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}
