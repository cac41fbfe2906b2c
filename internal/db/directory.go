package db

import (
	"context"
	"fmt"

	"github.com/mifops/gmao-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Directory resolves equipment and technician identities. The engine
// consults it to validate references and never mutates through it.
// Unknown ids resolve to ErrNotFound, never a placeholder.
type Directory interface {
	ResolveEquipment(ctx context.Context, id string) (*models.Equipment, error)
	ResolveTechnician(ctx context.Context, id string) (*models.Technician, error)
}

// MongoDirectory implements Directory over the equipment and
// technician collections. It also carries the write operations used by
// the directory HTTP handlers.
type MongoDirectory struct {
	Equipment   *mongo.Collection
	Technicians *mongo.Collection
}

// ResolveEquipment finds a piece of equipment by its ID.
func (d *MongoDirectory) ResolveEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	if d.Equipment == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var eq models.Equipment
	err := d.Equipment.FindOne(ctx, bson.M{"_id": id}).Decode(&eq)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &eq, nil
}

// ResolveTechnician finds a technician by their ID.
func (d *MongoDirectory) ResolveTechnician(ctx context.Context, id string) (*models.Technician, error) {
	if d.Technicians == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var tech models.Technician
	err := d.Technicians.FindOne(ctx, bson.M{"_id": id}).Decode(&tech)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &tech, nil
}

// InsertEquipment inserts a new piece of equipment.
func (d *MongoDirectory) InsertEquipment(ctx context.Context, eq models.Equipment) error {
	if d.Equipment == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := d.Equipment.InsertOne(ctx, eq)
	return err
}

// InsertTechnician inserts a new technician.
func (d *MongoDirectory) InsertTechnician(ctx context.Context, tech models.Technician) error {
	if d.Technicians == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := d.Technicians.InsertOne(ctx, tech)
	return err
}

// FindEquipment lists equipment matching the filter.
func (d *MongoDirectory) FindEquipment(ctx context.Context, filter bson.M) ([]models.Equipment, error) {
	if d.Equipment == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := d.Equipment.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var equipment []models.Equipment
	if err := cursor.All(ctx, &equipment); err != nil {
		return nil, err
	}

	return equipment, nil
}

// FindTechnicians lists technicians matching the filter.
func (d *MongoDirectory) FindTechnicians(ctx context.Context, filter bson.M) ([]models.Technician, error) {
	if d.Technicians == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	cursor, err := d.Technicians.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var technicians []models.Technician
	if err := cursor.All(ctx, &technicians); err != nil {
		return nil, err
	}

	return technicians, nil
}
