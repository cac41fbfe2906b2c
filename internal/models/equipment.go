package models

import (
	"time"
)

// Equipment represents an asset under maintenance. Consulted by the
// engine to validate references, never mutated by it.
type Equipment struct {
	ID             string     `bson:"_id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Location       string     `bson:"location" json:"location"`
	Manufacturer   string     `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Model          string     `bson:"model,omitempty" json:"model,omitempty"`
	SerialNumber   string     `bson:"serial_number,omitempty" json:"serial_number,omitempty"`
	CommissionedAt *time.Time `bson:"commissioned_at,omitempty" json:"commissioned_at,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
}

// Technician represents a member of the maintenance team that work
// orders and plans can be assigned to.
type Technician struct {
	ID        string    `bson:"_id" json:"id"`
	FirstName string    `bson:"first_name" json:"first_name"`
	LastName  string    `bson:"last_name" json:"last_name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialty string    `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Available bool      `bson:"available" json:"available"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
