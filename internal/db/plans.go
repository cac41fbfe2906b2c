package db

import (
	"context"
	"fmt"
	"time"

	"github.com/mifops/gmao-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlanCollection defines the interface for maintenance-plan persistence.
type PlanCollection interface {
	InsertPlan(ctx context.Context, plan models.MaintenancePlan) error
	FindPlanByID(ctx context.Context, id string) (*models.MaintenancePlan, error)
	ReplacePlan(ctx context.Context, plan models.MaintenancePlan, expectedVersion int64) error
	FindPlans(ctx context.Context, filter bson.M) ([]models.MaintenancePlan, error)
}

// MongoPlanCollection implements PlanCollection for MongoDB.
type MongoPlanCollection struct {
	Collection *mongo.Collection
}

// InsertPlan inserts a new maintenance plan into the collection.
func (c *MongoPlanCollection) InsertPlan(ctx context.Context, plan models.MaintenancePlan) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, plan)
	return err
}

// FindPlanByID finds a maintenance plan by its ID.
func (c *MongoPlanCollection) FindPlanByID(ctx context.Context, id string) (*models.MaintenancePlan, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var plan models.MaintenancePlan
	err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &plan, nil
}

// ReplacePlan replaces a maintenance plan, guarded by the expected
// version.
func (c *MongoPlanCollection) ReplacePlan(ctx context.Context, plan models.MaintenancePlan, expectedVersion int64) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	plan.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": plan.ID, "version": expectedVersion}, plan)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	return nil
}

// FindPlans queries maintenance plans with optional filtering, soonest
// due first.
func (c *MongoPlanCollection) FindPlans(ctx context.Context, filter bson.M) ([]models.MaintenancePlan, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "next_due_at", Value: 1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.MaintenancePlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}

	return plans, nil
}
