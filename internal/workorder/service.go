package workorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mifops/gmao-core/internal/db"
	"github.com/mifops/gmao-core/internal/models"
	"github.com/mifops/gmao-core/internal/notify"
	log "github.com/sirupsen/logrus"
)

// Service owns work-order records and enforces the lifecycle state
// machine on every mutation. Concurrent calls against the same id are
// serialized by a per-id lock; a stale expected version is rejected
// with ErrVersionConflict.
type Service struct {
	orders    db.WorkOrderCollection
	directory db.Directory
	sink      notify.Sink
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a work-order service.
func NewService(orders db.WorkOrderCollection, directory db.Directory, sink notify.Sink) *Service {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Service{
		orders:    orders,
		directory: directory,
		sink:      sink,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing mutations of one record.
func (s *Service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// CreateRequest carries the input for creating a work order.
type CreateRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Kind          models.Kind  `json:"kind"`
	Priority      models.Level `json:"priority"`
	Urgency       models.Level `json:"urgency"`
	EquipmentID   string       `json:"equipment_id"`
	ScheduledAt   *time.Time   `json:"scheduled_at,omitempty"`
	EstimatedCost *float64     `json:"estimated_cost,omitempty"`
	PlanID        string       `json:"plan_id,omitempty"`
}

// Create validates the request and stores a new work order. Every work
// order starts at status open, preventive ones included.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.WorkOrder, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.IsValidKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrValidation, req.Kind)
	}
	if req.Priority == "" {
		req.Priority = models.LevelMedium
	}
	if req.Urgency == "" {
		req.Urgency = models.LevelMedium
	}
	if !models.IsValidLevel(req.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, req.Priority)
	}
	if !models.IsValidLevel(req.Urgency) {
		return nil, fmt.Errorf("%w: unknown urgency %q", ErrValidation, req.Urgency)
	}
	if req.EquipmentID == "" {
		return nil, fmt.Errorf("%w: equipment_id is required", ErrValidation)
	}
	if req.EstimatedCost != nil && *req.EstimatedCost < 0 {
		return nil, fmt.Errorf("%w: estimated_cost must not be negative", ErrValidation)
	}

	if _, err := s.directory.ResolveEquipment(ctx, req.EquipmentID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown equipment %q", ErrValidation, req.EquipmentID)
		}
		return nil, err
	}

	now := s.now()
	wo := models.WorkOrder{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Status:        models.StatusOpen,
		Priority:      req.Priority,
		Urgency:       req.Urgency,
		Kind:          req.Kind,
		EquipmentID:   req.EquipmentID,
		ScheduledAt:   req.ScheduledAt,
		EstimatedCost: req.EstimatedCost,
		PlanID:        req.PlanID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}

	if err := s.orders.InsertWorkOrder(ctx, wo); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"work_order_id": wo.ID,
		"kind":          wo.Kind,
		"equipment_id":  wo.EquipmentID,
	}).Info("work order created")

	return &wo, nil
}

// TransitionRequest carries the input for a lifecycle action.
type TransitionRequest struct {
	Action          models.Action `json:"action"`
	ActorRole       models.Role   `json:"actor_role"`
	TechnicianID    string        `json:"technician_id,omitempty"`
	ActualCost      *float64      `json:"actual_cost,omitempty"`
	ExpectedVersion int64         `json:"expected_version"`
}

// Transition applies a lifecycle action to a work order. Checks run in
// a fixed order: capability, existence, version, edge, action guard.
// Capability is checked before the record is loaded so an unauthorized
// caller learns nothing about record existence. A rejected operation
// leaves the record unchanged.
func (s *Service) Transition(ctx context.Context, id string, req TransitionRequest) (*models.WorkOrder, error) {
	if !models.Can(req.ActorRole, req.Action) {
		return nil, fmt.Errorf("%w: role %q may not invoke %q", ErrUnauthorized, req.ActorRole, req.Action)
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	wo, err := s.orders.FindWorkOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.ExpectedVersion != wo.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", ErrVersionConflict, req.ExpectedVersion, wo.Version)
	}

	target, ok := models.NextStatus(wo.Status, req.Action)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not applicable in status %q", ErrInvalidTransition, req.Action, wo.Status)
	}

	now := s.now()
	switch req.Action {
	case models.ActionAssign:
		if req.TechnicianID == "" {
			return nil, fmt.Errorf("%w: technician_id is required to assign", ErrValidation)
		}
		if _, err := s.directory.ResolveTechnician(ctx, req.TechnicianID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown technician %q", ErrValidation, req.TechnicianID)
			}
			return nil, err
		}
		wo.TechnicianID = req.TechnicianID
	case models.ActionComplete:
		if wo.TechnicianID == "" {
			return nil, fmt.Errorf("%w: cannot complete without an assigned technician", ErrValidation)
		}
		if req.ActualCost != nil && *req.ActualCost < 0 {
			return nil, fmt.Errorf("%w: actual_cost must not be negative", ErrValidation)
		}
		wo.CompletedAt = &now
		wo.ActualCost = req.ActualCost
	}

	from := wo.Status
	wo.Status = target
	wo.UpdatedAt = now
	wo.Version++

	if err := s.orders.ReplaceWorkOrder(ctx, *wo, req.ExpectedVersion); err != nil {
		if errors.Is(err, db.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: stored version moved past %d", ErrVersionConflict, req.ExpectedVersion)
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"work_order_id": wo.ID,
		"from":          from,
		"to":            wo.Status,
		"action":        req.Action,
		"actor_role":    req.ActorRole,
	}).Info("work order transitioned")

	// Delivery is best-effort and must never block the transition.
	go s.sink.PublishTransition(models.TransitionEvent{
		WorkOrderID: wo.ID,
		FromStatus:  from,
		ToStatus:    wo.Status,
		Action:      req.Action,
		ActorRole:   req.ActorRole,
		Timestamp:   now,
	})

	return wo, nil
}

// Get returns a work order by id.
func (s *Service) Get(ctx context.Context, id string) (*models.WorkOrder, error) {
	wo, err := s.orders.FindWorkOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wo, nil
}
