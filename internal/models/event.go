package models

import (
	"time"
)

// TransitionEvent records a work-order status change for delivery to
// the notification sink. One event is emitted per successful
// transition.
type TransitionEvent struct {
	WorkOrderID string    `json:"work_order_id"`
	FromStatus  Status    `json:"from_status"`
	ToStatus    Status    `json:"to_status"`
	Action      Action    `json:"action"`
	ActorRole   Role      `json:"actor_role"`
	Timestamp   time.Time `json:"timestamp"`
}

// Plan event kinds.
const (
	PlanEventOverdue  = "overdue"
	PlanEventExecuted = "executed"
	PlanEventSpawned  = "spawned"
)

// PlanEvent records a preventive-plan lifecycle event (overdue
// detection, execution, work-order spawn).
type PlanEvent struct {
	PlanID      string    `json:"plan_id"`
	EquipmentID string    `json:"equipment_id"`
	Kind        string    `json:"kind"`
	DueAt       time.Time `json:"due_at"`
	WorkOrderID string    `json:"work_order_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
