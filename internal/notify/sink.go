package notify

import (
	"github.com/mifops/gmao-core/internal/models"
)

// Sink receives lifecycle events for delivery. Delivery is
// best-effort: implementations must never block or fail the state
// transition that produced the event.
type Sink interface {
	PublishTransition(event models.TransitionEvent)
	PublishPlanEvent(event models.PlanEvent)
}

// NopSink discards all events. Used when no broker is configured.
type NopSink struct{}

// PublishTransition discards the event.
func (NopSink) PublishTransition(models.TransitionEvent) {}

// PublishPlanEvent discards the event.
func (NopSink) PublishPlanEvent(models.PlanEvent) {}
