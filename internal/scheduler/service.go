package scheduler

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
	"github.com/mifops/gmao-core/internal/workorder"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// Service owns preventive-maintenance plans: it computes due dates,
// classifies plans against a reference time and advances the
// recurrence when an execution is recorded. MarkExecuted is the only
// mutator of NextDueAt and LastExecutedAt after creation.
type Service struct {
	plans     db.PlanCollection
	directory db.Directory
	sink      notify.Sink
	orders    *workorder.Service
	now       func() time.Time

	// UpcomingWindow is how far ahead a plan counts as upcoming.
	UpcomingWindow time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a scheduler service. orders may be nil when
// work-order spawning is not wanted.
func NewService(plans db.PlanCollection, directory db.Directory, sink notify.Sink, orders *workorder.Service) *Service {
	if sink == nil {
		sink = notify.NopSink{}
	}
	return &Service{
		plans:          plans,
		directory:      directory,
		sink:           sink,
		orders:         orders,
		now:            time.Now,
		UpcomingWindow: DefaultUpcomingWindow,
		locks:          make(map[string]*sync.Mutex),
	}
}

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

// CreatePlanRequest carries the input for creating a maintenance plan.
type CreatePlanRequest struct {
	EquipmentID            string           `json:"equipment_id"`
	TechnicianID           string           `json:"technician_id"`
	Title                  string           `json:"title"`
	Description            string           `json:"description"`
	Frequency              models.Frequency `json:"frequency"`
	NextDueAt              time.Time        `json:"next_due_at"`
	EstimatedDurationHours float64          `json:"estimated_duration_hours"`
}

// CreatePlan validates the request and stores a new active plan. The
// initial due date is the only one a caller ever sets directly; every
// later one comes from MarkExecuted.
func (s *Service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*models.MaintenancePlan, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.IsValidFrequencyUnit(req.Frequency.Unit) {
		return nil, fmt.Errorf("%w: unknown frequency unit %q", ErrValidation, req.Frequency.Unit)
	}
	if req.Frequency.Count < 1 {
		return nil, fmt.Errorf("%w: frequency count must be positive", ErrValidation)
	}
	if req.EstimatedDurationHours <= 0 {
		return nil, fmt.Errorf("%w: estimated_duration_hours must be positive", ErrValidation)
	}
	if req.EquipmentID == "" {
		return nil, fmt.Errorf("%w: equipment_id is required", ErrValidation)
	}
	if req.TechnicianID == "" {
		return nil, fmt.Errorf("%w: technician_id is required", ErrValidation)
	}

	now := s.now()
	if !req.NextDueAt.After(now) {
		return nil, fmt.Errorf("%w: next_due_at must be in the future", ErrValidation)
	}

	if _, err := s.directory.ResolveEquipment(ctx, req.EquipmentID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown equipment %q", ErrValidation, req.EquipmentID)
		}
		return nil, err
	}
	if _, err := s.directory.ResolveTechnician(ctx, req.TechnicianID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown technician %q", ErrValidation, req.TechnicianID)
		}
		return nil, err
	}

	plan := models.MaintenancePlan{
		ID:                     uuid.New().String(),
		EquipmentID:            req.EquipmentID,
		TechnicianID:           req.TechnicianID,
		Title:                  req.Title,
		Description:            req.Description,
		Frequency:              req.Frequency,
		NextDueAt:              req.NextDueAt,
		EstimatedDurationHours: req.EstimatedDurationHours,
		Active:                 true,
		CreatedAt:              now,
		UpdatedAt:              now,
		Version:                1,
	}

	if err := s.plans.InsertPlan(ctx, plan); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"plan_id":      plan.ID,
		"equipment_id": plan.EquipmentID,
		"next_due_at":  plan.NextDueAt,
	}).Info("maintenance plan created")

	return &plan, nil
}

// Get returns a plan by id.
func (s *Service) Get(ctx context.Context, id string) (*models.MaintenancePlan, error) {
	plan, err := s.plans.FindPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ClassifyAll loads every plan and classifies it against now. The pass
// is a pure scan over the stored records: calling it again with a
// different now yields a fresh, consistent result.
func (s *Service) ClassifyAll(ctx context.Context, now time.Time) ([]models.ClassifiedPlan, error) {
	plans, err := s.plans.FindPlans(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	classified := make([]models.ClassifiedPlan, 0, len(plans))
	for _, plan := range plans {
		classified = append(classified, models.ClassifiedPlan{
			Plan:           plan,
			Classification: Classify(plan, now, s.UpcomingWindow),
		})
	}

	return classified, nil
}

// MarkExecuted records an execution of the plan at executedAt and
// advances the recurrence: LastExecutedAt becomes executedAt and
// NextDueAt becomes executedAt plus one frequency interval, which is
// always strictly after executedAt.
func (s *Service) MarkExecuted(ctx context.Context, id string, executedAt time.Time, expectedVersion int64) (*models.MaintenancePlan, error) {
	if executedAt.IsZero() {
		return nil, fmt.Errorf("%w: executed_at is required", ErrValidation)
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.plans.FindPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if expectedVersion != plan.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", ErrVersionConflict, expectedVersion, plan.Version)
	}
	if !plan.Active {
		return nil, fmt.Errorf("%w: plan is deactivated", ErrInvalidState)
	}

	plan.LastExecutedAt = &executedAt
	plan.NextDueAt = NextDueAt(plan.Frequency, executedAt)
	plan.UpdatedAt = s.now()
	plan.Version++

	if err := s.plans.ReplacePlan(ctx, *plan, expectedVersion); err != nil {
		if errors.Is(err, db.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: stored version moved past %d", ErrVersionConflict, expectedVersion)
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"plan_id":     plan.ID,
		"executed_at": executedAt,
		"next_due_at": plan.NextDueAt,
	}).Info("maintenance plan executed")

	go s.sink.PublishPlanEvent(models.PlanEvent{
		PlanID:      plan.ID,
		EquipmentID: plan.EquipmentID,
		Kind:        models.PlanEventExecuted,
		DueAt:       plan.NextDueAt,
		Timestamp:   s.now(),
	})

	return plan, nil
}

// Deactivate takes the plan out of due-date classification while
// keeping its history. Fails if the plan is already inactive.
func (s *Service) Deactivate(ctx context.Context, id string, expectedVersion int64) (*models.MaintenancePlan, error) {
	return s.setActive(ctx, id, expectedVersion, false)
}

// Reactivate resumes a deactivated plan. NextDueAt is left as stored,
// so a long-deactivated plan may immediately classify as overdue:
// reactivation surfaces the backlog rather than silently resetting it.
func (s *Service) Reactivate(ctx context.Context, id string, expectedVersion int64) (*models.MaintenancePlan, error) {
	return s.setActive(ctx, id, expectedVersion, true)
}

func (s *Service) setActive(ctx context.Context, id string, expectedVersion int64, active bool) (*models.MaintenancePlan, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.plans.FindPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if expectedVersion != plan.Version {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", ErrVersionConflict, expectedVersion, plan.Version)
	}
	if plan.Active == active {
		if active {
			return nil, fmt.Errorf("%w: plan is already active", ErrInvalidState)
		}
		return nil, fmt.Errorf("%w: plan is already deactivated", ErrInvalidState)
	}

	plan.Active = active
	plan.UpdatedAt = s.now()
	plan.Version++

	if err := s.plans.ReplacePlan(ctx, *plan, expectedVersion); err != nil {
		if errors.Is(err, db.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: stored version moved past %d", ErrVersionConflict, expectedVersion)
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"plan_id": plan.ID,
		"active":  plan.Active,
	}).Info("maintenance plan toggled")

	return plan, nil
}

// SweepResult summarizes one due sweep.
type SweepResult struct {
	Checked int `json:"checked"`
	Overdue int `json:"overdue"`
	Spawned int `json:"spawned"`
}

// SweepDue classifies every plan against now, publishes an event per
// overdue plan and, when a work-order service is wired, spawns one
// preventive work order per plan per due date. The spawn is
// de-duplicated by stamping the due date it covered on the plan.
func (s *Service) SweepDue(ctx context.Context, now time.Time) (SweepResult, error) {
	classified, err := s.ClassifyAll(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Checked: len(classified)}
	for _, cp := range classified {
		if cp.Classification != models.ClassificationOverdue {
			continue
		}
		result.Overdue++

		plan := cp.Plan
		go s.sink.PublishPlanEvent(models.PlanEvent{
			PlanID:      plan.ID,
			EquipmentID: plan.EquipmentID,
			Kind:        models.PlanEventOverdue,
			DueAt:       plan.NextDueAt,
			Timestamp:   now,
		})

		if s.orders == nil {
			continue
		}
		if plan.SpawnedFor != nil && plan.SpawnedFor.Equal(plan.NextDueAt) {
			continue
		}

		if err := s.spawnWorkOrder(ctx, plan, now); err != nil {
			log.WithError(err).WithField("plan_id", plan.ID).Warn("failed to spawn preventive work order")
			continue
		}
		result.Spawned++
	}

	return result, nil
}

// spawnWorkOrder creates an open preventive work order for the plan's
// current due date and stamps the plan so the same due date is not
// spawned twice.
func (s *Service) spawnWorkOrder(ctx context.Context, plan models.MaintenancePlan, now time.Time) error {
	dueAt := plan.NextDueAt
	wo, err := s.orders.Create(ctx, workorder.CreateRequest{
		Title:       plan.Title,
		Description: plan.Description,
		Kind:        models.KindPreventive,
		EquipmentID: plan.EquipmentID,
		ScheduledAt: &dueAt,
		PlanID:      plan.ID,
	})
	if err != nil {
		return err
	}

	lock := s.lockFor(plan.ID)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.plans.FindPlanByID(ctx, plan.ID)
	if err != nil {
		return err
	}
	expected := stored.Version
	stored.SpawnedFor = &dueAt
	stored.UpdatedAt = s.now()
	stored.Version++
	if err := s.plans.ReplacePlan(ctx, *stored, expected); err != nil {
		return err
	}

	go s.sink.PublishPlanEvent(models.PlanEvent{
		PlanID:      plan.ID,
		EquipmentID: plan.EquipmentID,
		Kind:        models.PlanEventSpawned,
		DueAt:       dueAt,
		WorkOrderID: wo.ID,
		Timestamp:   now,
	})

	return nil
}
