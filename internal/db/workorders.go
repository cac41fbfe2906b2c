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

// WorkOrderCollection defines the interface for work-order persistence.
type WorkOrderCollection interface {
	InsertWorkOrder(ctx context.Context, wo models.WorkOrder) error
	FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error)
	ReplaceWorkOrder(ctx context.Context, wo models.WorkOrder, expectedVersion int64) error
	FindWorkOrders(ctx context.Context, filter bson.M) ([]models.WorkOrder, error)
}

// MongoWorkOrderCollection implements WorkOrderCollection for MongoDB.
type MongoWorkOrderCollection struct {
	Collection *mongo.Collection
}

// InsertWorkOrder inserts a new work order into the collection.
func (c *MongoWorkOrderCollection) InsertWorkOrder(ctx context.Context, wo models.WorkOrder) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, wo)
	return err
}

// FindWorkOrderByID finds a work order by its ID.
func (c *MongoWorkOrderCollection) FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var wo models.WorkOrder
	err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &wo, nil
}

// ReplaceWorkOrder replaces a work order, guarded by the expected
// version. The filter matches both id and version so a concurrent
// writer that already bumped the version leaves nothing to match.
func (c *MongoWorkOrderCollection) ReplaceWorkOrder(ctx context.Context, wo models.WorkOrder, expectedVersion int64) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	wo.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": wo.ID, "version": expectedVersion}, wo)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	return nil
}

// FindWorkOrders queries work orders with optional filtering, newest
// first.
func (c *MongoWorkOrderCollection) FindWorkOrders(ctx context.Context, filter bson.M) ([]models.WorkOrder, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.WorkOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}
