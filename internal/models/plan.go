package models

import (
	"time"
)

// FrequencyUnit is the calendar unit of a recurrence rule.
type FrequencyUnit string

const (
	FrequencyDay     FrequencyUnit = "day"
	FrequencyWeek    FrequencyUnit = "week"
	FrequencyMonth   FrequencyUnit = "month"
	FrequencyQuarter FrequencyUnit = "quarter"
	FrequencyYear    FrequencyUnit = "year"
)

// IsValidFrequencyUnit returns true if the unit is a known value.
func IsValidFrequencyUnit(u FrequencyUnit) bool {
	switch u {
	case FrequencyDay, FrequencyWeek, FrequencyMonth, FrequencyQuarter, FrequencyYear:
		return true
	default:
		return false
	}
}

// Frequency is the recurrence rule of a preventive maintenance plan:
// Count units of Unit between occurrences.
type Frequency struct {
	Unit  FrequencyUnit `bson:"unit" json:"unit"`
	Count int           `bson:"count" json:"count"`
}

// MaintenancePlan represents a recurring preventive-maintenance
// schedule for one piece of equipment. Plans are never deleted, only
// deactivated, to preserve history. NextDueAt and LastExecutedAt are
// mutated only by the scheduler's mark-executed operation.
type MaintenancePlan struct {
	ID                     string     `bson:"_id" json:"id"`
	EquipmentID            string     `bson:"equipment_id" json:"equipment_id"`
	TechnicianID           string     `bson:"technician_id" json:"technician_id"`
	Title                  string     `bson:"title" json:"title"`
	Description            string     `bson:"description" json:"description"`
	Frequency              Frequency  `bson:"frequency" json:"frequency"`
	NextDueAt              time.Time  `bson:"next_due_at" json:"next_due_at"`
	LastExecutedAt         *time.Time `bson:"last_executed_at,omitempty" json:"last_executed_at,omitempty"`
	EstimatedDurationHours float64    `bson:"estimated_duration_hours" json:"estimated_duration_hours"`
	Active                 bool       `bson:"active" json:"active"`
	SpawnedFor             *time.Time `bson:"spawned_for,omitempty" json:"spawned_for,omitempty"`
	CreatedAt              time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `bson:"updated_at" json:"updated_at"`
	Version                int64      `bson:"version" json:"version"`
}

// Classification is the due-date bucket of a plan at a point in time.
type Classification string

const (
	ClassificationInactive  Classification = "inactive"
	ClassificationOverdue   Classification = "overdue"
	ClassificationUpcoming  Classification = "upcoming"
	ClassificationScheduled Classification = "scheduled"
)

// ClassifiedPlan pairs a plan with its classification for a given
// reference time.
type ClassifiedPlan struct {
	Plan           MaintenancePlan `json:"plan"`
	Classification Classification  `json:"classification"`
}
