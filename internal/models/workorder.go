package models

import (
	"time"
)

// Status represents the lifecycle status of a work order.
type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusClosed     Status = "closed"
	StatusCanceled   Status = "canceled"
	StatusArchived   Status = "archived"
)

// Action represents a lifecycle action invoked against a work order.
type Action string

const (
	ActionAssign   Action = "assign"
	ActionStart    Action = "start"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionArchive  Action = "archive"
)

// Kind distinguishes corrective from preventive work orders.
type Kind string

const (
	KindCorrective Kind = "corrective"
	KindPreventive Kind = "preventive"
)

// Level is the ordinal scale used for priority and urgency. It is
// informational only and never gates a transition.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// WorkOrder represents a maintenance intervention tracked through its
// lifecycle. Status only ever changes through the transition table
// below; Version is bumped on every mutation and acts as the
// optimistic-concurrency token.
type WorkOrder struct {
	ID            string     `bson:"_id" json:"id"`
	Title         string     `bson:"title" json:"title"`
	Description   string     `bson:"description" json:"description"`
	Status        Status     `bson:"status" json:"status"`
	Priority      Level      `bson:"priority" json:"priority"`
	Urgency       Level      `bson:"urgency" json:"urgency"`
	Kind          Kind       `bson:"kind" json:"kind"`
	EquipmentID   string     `bson:"equipment_id" json:"equipment_id"`
	TechnicianID  string     `bson:"technician_id,omitempty" json:"technician_id,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
	ScheduledAt   *time.Time `bson:"scheduled_at,omitempty" json:"scheduled_at,omitempty"`
	CompletedAt   *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	EstimatedCost *float64   `bson:"estimated_cost,omitempty" json:"estimated_cost,omitempty"`
	ActualCost    *float64   `bson:"actual_cost,omitempty" json:"actual_cost,omitempty"`
	PlanID        string     `bson:"plan_id,omitempty" json:"plan_id,omitempty"`
	Version       int64      `bson:"version" json:"version"`
}

// transitions is the authoritative status/action table. Any
// (status, action) pair absent from it is rejected.
var transitions = map[Status]map[Action]Status{
	StatusOpen: {
		ActionAssign: StatusAssigned,
	},
	StatusAssigned: {
		ActionStart:  StatusInProgress,
		ActionCancel: StatusCanceled,
	},
	StatusInProgress: {
		ActionPause:    StatusOnHold,
		ActionComplete: StatusClosed,
	},
	StatusOnHold: {
		ActionResume: StatusInProgress,
		ActionCancel: StatusCanceled,
	},
	StatusClosed: {
		ActionArchive: StatusArchived,
	},
	StatusCanceled: {
		ActionArchive: StatusArchived,
	},
}

// NextStatus returns the target status for applying action in the
// given status, or false when the edge does not exist.
func NextStatus(current Status, action Action) (Status, bool) {
	targets, ok := transitions[current]
	if !ok {
		return "", false
	}
	target, ok := targets[action]
	return target, ok
}

// IsValidStatus returns true if the status is a known value.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusOnHold,
		StatusClosed, StatusCanceled, StatusArchived:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status accepts no transition other
// than archive, or none at all.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCanceled || s == StatusArchived
}

// IsValidKind returns true if the kind is a known value.
func IsValidKind(k Kind) bool {
	return k == KindCorrective || k == KindPreventive
}

// IsValidLevel returns true if the level is a known value.
func IsValidLevel(l Level) bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// Statuses lists all statuses in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusOpen, StatusAssigned, StatusInProgress, StatusOnHold,
		StatusClosed, StatusCanceled, StatusArchived,
	}
}

// Actions lists all lifecycle actions.
func Actions() []Action {
	return []Action{
		ActionAssign, ActionStart, ActionPause, ActionResume,
		ActionComplete, ActionCancel, ActionArchive,
	}
}
