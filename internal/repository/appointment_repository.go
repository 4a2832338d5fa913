package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AppointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// GetByID retrieves an appointment by its ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	query := `
		SELECT id, claim_id, scheduled_at, status, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment by id: %w", err)
	}

	return &appointment, nil
}

// GetByClaimID retrieves a claim's appointments in schedule order
func (r *AppointmentRepository) GetByClaimID(ctx context.Context, claimID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := `
		SELECT id, claim_id, scheduled_at, status, notes, created_at, updated_at
		FROM appointments
		WHERE claim_id = $1
		ORDER BY scheduled_at ASC
	`

	err := r.db.SelectContext(ctx, &appointments, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments by claim id: %w", err)
	}

	return appointments, nil
}

// GetAll retrieves appointments in an optional date window
func (r *AppointmentRepository) GetAll(ctx context.Context, from, to *time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := `
		SELECT id, claim_id, scheduled_at, status, notes, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`

	args := []interface{}{}
	argCount := 1

	if from != nil {
		query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
		args = append(args, *from)
		argCount++
	}

	if to != nil {
		query += fmt.Sprintf(" AND scheduled_at <= $%d", argCount)
		args = append(args, *to)
		argCount++
	}

	query += " ORDER BY scheduled_at ASC"

	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}

	return appointments, nil
}

// HasOverlap checks whether any active appointment already occupies the slot
func (r *AppointmentRepository) HasOverlap(ctx context.Context, scheduledAt time.Time, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE scheduled_at = $1 AND status != $2
	`
	args := []interface{}{scheduledAt, models.AppointmentCancelled}

	if excludeID != nil {
		query += " AND id != $3"
		args = append(args, *excludeID)
	}
	query += ")"

	err := r.db.GetContext(ctx, &exists, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment overlap: %w", err)
	}

	return exists, nil
}

// Create inserts a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	query := `
		INSERT INTO appointments (id, claim_id, scheduled_at, status, notes, created_at, updated_at)
		VALUES (:id, :claim_id, :scheduled_at, :status, :notes, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// Update updates an appointment's mutable fields
func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	appointment.UpdatedAt = time.Now()

	query := `
		UPDATE appointments SET
			scheduled_at = :scheduled_at,
			status = :status,
			notes = :notes,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("appointment not found: %s", appointment.ID)
	}

	return nil
}

// Delete removes an appointment
func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("appointment not found: %s", id)
	}

	return nil
}
