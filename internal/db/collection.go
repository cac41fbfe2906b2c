package db

import (
	"errors"
)

// Collection names used by the engine.
const (
	WorkOrdersCollection  = "work_orders"
	PlansCollection       = "maintenance_plans"
	EquipmentCollection   = "equipment"
	TechniciansCollection = "technicians"
	UsersCollection       = "users"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a replace is attempted with
	// a stale version token.
	ErrVersionConflict = errors.New("version conflict")
)
