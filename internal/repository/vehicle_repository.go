package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type VehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// GetByID retrieves a vehicle by its ID
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	query := `
		SELECT id, owner_id, plate, brand, model, year, color, created_at
		FROM vehicles
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &vehicle, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle by id: %w", err)
	}

	return &vehicle, nil
}

// GetByOwnerID retrieves all vehicles registered to a client
func (r *VehicleRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	query := `
		SELECT id, owner_id, plate, brand, model, year, color, created_at
		FROM vehicles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &vehicles, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicles by owner id: %w", err)
	}

	return vehicles, nil
}

// Create inserts a new vehicle
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO vehicles (id, owner_id, plate, brand, model, year, color, created_at)
		VALUES (:id, :owner_id, :plate, :brand, :model, :year, :color, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

// Update updates a vehicle's editable fields
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles SET
			plate = :plate,
			brand = :brand,
			model = :model,
			year = :year,
			color = :color
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, vehicle)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	return nil
}

// Delete removes a vehicle by ID
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM vehicles WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("vehicle not found")
	}

	return nil
}
