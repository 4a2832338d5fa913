package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// BeginTransaction starts a transaction for multi-write claim flows
func (r *ClaimRepository) BeginTransaction() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

// GetByID retrieves a claim by its ID
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	query := `
		SELECT id, client_id, vehicle_id, description, status, employee_notes,
		       reviewed_by, created_at, updated_at
		FROM claims
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &claim, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim by id: %w", err)
	}

	return &claim, nil
}

// GetAll retrieves all claims with optional filters
func (r *ClaimRepository) GetAll(ctx context.Context, filters map[string]interface{}) ([]models.Claim, error) {
	var claims []models.Claim
	query := `
		SELECT id, client_id, vehicle_id, description, status, employee_notes,
		       reviewed_by, created_at, updated_at
		FROM claims
		WHERE 1=1
	`

	args := []interface{}{}
	argCount := 1

	if clientID, ok := filters["client_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, clientID)
		argCount++
	}

	if vehicleID, ok := filters["vehicle_id"].(uuid.UUID); ok {
		query += fmt.Sprintf(" AND vehicle_id = $%d", argCount)
		args = append(args, vehicleID)
		argCount++
	}

	if status, ok := filters["status"].(models.ClaimStatus); ok {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if limit, ok := filters["limit"].(int); ok && limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, limit)
	}

	err := r.db.SelectContext(ctx, &claims, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}

	return claims, nil
}

// GetByClientID retrieves all claims filed by a client
func (r *ClaimRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]models.Claim, error) {
	var claims []models.Claim
	query := `
		SELECT id, client_id, vehicle_id, description, status, employee_notes,
		       reviewed_by, created_at, updated_at
		FROM claims
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &claims, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims by client id: %w", err)
	}

	return claims, nil
}

// Create inserts a new claim
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	now := time.Now()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	query := `
		INSERT INTO claims (id, client_id, vehicle_id, description, status, employee_notes, reviewed_by, created_at, updated_at)
		VALUES (:id, :client_id, :vehicle_id, :description, :status, :employee_notes, :reviewed_by, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}

	return nil
}

// Update updates a claim's mutable fields
func (r *ClaimRepository) Update(ctx context.Context, claim *models.Claim) error {
	claim.UpdatedAt = time.Now()

	query := `
		UPDATE claims SET
			description = :description,
			status = :status,
			employee_notes = :employee_notes,
			reviewed_by = :reviewed_by,
			updated_at = :updated_at
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	return nil
}

// UpdateTx updates a claim inside an existing transaction
func (r *ClaimRepository) UpdateTx(tx *sqlx.Tx, claim *models.Claim) error {
	claim.UpdatedAt = time.Now()

	query := `
		UPDATE claims SET
			description = :description,
			status = :status,
			employee_notes = :employee_notes,
			reviewed_by = :reviewed_by,
			updated_at = :updated_at
		WHERE id = :id
	`

	_, err := tx.NamedExec(query, claim)
	if err != nil {
		return fmt.Errorf("failed to update claim in transaction: %w", err)
	}

	return nil
}

// AddPhoto records an uploaded claim photo
func (r *ClaimRepository) AddPhoto(ctx context.Context, photo *models.ClaimPhoto) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	if photo.UploadedAt.IsZero() {
		photo.UploadedAt = time.Now()
	}

	query := `
		INSERT INTO claim_photos (id, claim_id, object_name, url, uploaded_at)
		VALUES (:id, :claim_id, :object_name, :url, :uploaded_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, photo)
	if err != nil {
		return fmt.Errorf("failed to add claim photo: %w", err)
	}

	return nil
}

// GetPhotoByID retrieves a single claim photo
func (r *ClaimRepository) GetPhotoByID(ctx context.Context, photoID uuid.UUID) (*models.ClaimPhoto, error) {
	var photo models.ClaimPhoto
	query := `
		SELECT id, claim_id, object_name, url, uploaded_at
		FROM claim_photos
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &photo, query, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim photo by id: %w", err)
	}

	return &photo, nil
}

// DeletePhotoTx removes a photo record inside an existing transaction. The
// object store cleanup is enqueued separately in the same transaction.
func (r *ClaimRepository) DeletePhotoTx(tx *sqlx.Tx, photoID uuid.UUID) error {
	result, err := tx.Exec(`DELETE FROM claim_photos WHERE id = $1`, photoID)
	if err != nil {
		return fmt.Errorf("failed to delete claim photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("claim photo not found: %s", photoID)
	}

	return nil
}

// GetPhotos retrieves all photos attached to a claim
func (r *ClaimRepository) GetPhotos(ctx context.Context, claimID uuid.UUID) ([]models.ClaimPhoto, error) {
	var photos []models.ClaimPhoto
	query := `
		SELECT id, claim_id, object_name, url, uploaded_at
		FROM claim_photos
		WHERE claim_id = $1
		ORDER BY uploaded_at ASC
	`

	err := r.db.SelectContext(ctx, &photos, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim photos: %w", err)
	}

	return photos, nil
}
