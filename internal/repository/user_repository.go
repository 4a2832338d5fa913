package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, provider_subject, email, full_name, phone, role, picture_url,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByProviderSubject retrieves a user by the OAuth provider subject
func (r *UserRepository) GetByProviderSubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, provider_subject, email, full_name, phone, role, picture_url,
		       created_at, updated_at
		FROM users
		WHERE provider_subject = $1
	`

	err := r.db.GetContext(ctx, &user, query, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by provider subject: %w", err)
	}

	return &user, nil
}

// Upsert inserts a user on first login or refreshes profile fields on a
// returning login, keyed on the provider subject.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, provider_subject, email, full_name, phone, role, picture_url, created_at, updated_at)
		VALUES (:id, :provider_subject, :email, :full_name, :phone, :role, :picture_url, :created_at, :updated_at)
		ON CONFLICT (provider_subject) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			picture_url = EXCLUDED.picture_url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// GetAll retrieves all users with an optional role filter
func (r *UserRepository) GetAll(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT id, provider_subject, email, full_name, phone, role, picture_url,
		       created_at, updated_at
		FROM users
	`
	args := []interface{}{}

	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.UserRole) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// UpdateProfile updates the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string, phone *string) error {
	query := `UPDATE users SET full_name = $1, phone = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, fullName, phone, id)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
