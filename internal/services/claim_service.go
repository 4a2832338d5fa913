package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"doctorcar-service/internal/database/minio"
	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/google/uuid"
)

type ClaimService struct {
	claimRepo       *repository.ClaimRepository
	vehicleRepo     *repository.VehicleRepository
	userRepo        *repository.UserRepository
	budgetItemRepo  *repository.BudgetItemRepository
	appointmentRepo *repository.AppointmentRepository
	billingService  *BillingService
	outboxRepo      *repository.OutboxRepository
	minioClient     *minio.MinioClient
}

func NewClaimService(
	claimRepo *repository.ClaimRepository,
	vehicleRepo *repository.VehicleRepository,
	userRepo *repository.UserRepository,
	budgetItemRepo *repository.BudgetItemRepository,
	appointmentRepo *repository.AppointmentRepository,
	billingService *BillingService,
	outboxRepo *repository.OutboxRepository,
	minioClient *minio.MinioClient,
) *ClaimService {
	return &ClaimService{
		claimRepo:       claimRepo,
		vehicleRepo:     vehicleRepo,
		userRepo:        userRepo,
		budgetItemRepo:  budgetItemRepo,
		appointmentRepo: appointmentRepo,
		billingService:  billingService,
		outboxRepo:      outboxRepo,
		minioClient:     minioClient,
	}
}

// CreateClaim files a claim for a vehicle owned by the client
func (s *ClaimService) CreateClaim(ctx context.Context, request models.CreateClaimRequest, clientID uuid.UUID) (*models.Claim, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid claim: %w", err)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, request.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}
	if vehicle.OwnerID != clientID {
		return nil, fmt.Errorf("unauthorized: vehicle does not belong to this client")
	}

	claim := models.Claim{
		ClientID:    clientID,
		VehicleID:   request.VehicleID,
		Description: request.Description,
		Status:      models.ClaimPending,
	}
	if err := s.claimRepo.Create(ctx, &claim); err != nil {
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	return &claim, nil
}

// GetClaimsByClientID retrieves the claims filed by a client
func (s *ClaimService) GetClaimsByClientID(ctx context.Context, clientID uuid.UUID) ([]models.Claim, error) {
	claims, err := s.claimRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims for client: %w", err)
	}

	return claims, nil
}

// GetAllClaims retrieves claims with optional filters (staff view)
func (s *ClaimService) GetAllClaims(ctx context.Context, filters map[string]interface{}) ([]models.Claim, error) {
	claims, err := s.claimRepo.GetAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}

	return claims, nil
}

// GetClaimDetail joins a claim with its vehicle, client, photos, budget,
// appointments and billing. The totals come from the stored reconciled
// columns; a claim without billing reports a nil billing and zero totals.
func (s *ClaimService) GetClaimDetail(ctx context.Context, claimID uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) (*models.ClaimDetail, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	if requesterRole == models.RoleClient && claim.ClientID != requesterID {
		return nil, fmt.Errorf("unauthorized: claim does not belong to this client")
	}

	detail := models.ClaimDetail{Claim: *claim}

	if vehicle, err := s.vehicleRepo.GetByID(ctx, claim.VehicleID); err == nil {
		detail.Vehicle = vehicle
	}
	if client, err := s.userRepo.GetByID(ctx, claim.ClientID); err == nil {
		detail.Client = client
	}

	photos, err := s.claimRepo.GetPhotos(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim photos: %w", err)
	}
	detail.Photos = photos

	items, err := s.budgetItemRepo.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget items: %w", err)
	}
	detail.BudgetItems = items

	appointments, err := s.appointmentRepo.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}
	detail.Appointments = appointments

	billing, err := s.billingService.GetBillingByClaimID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	detail.Billing = *billing

	return &detail, nil
}

// UpdateClaimStatus moves a claim through its lifecycle (staff path)
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, claimID uuid.UUID, request models.UpdateClaimStatusRequest, reviewerID uuid.UUID) (*models.Claim, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}

	claim.Status = request.Status
	if request.EmployeeNotes != nil {
		claim.EmployeeNotes = request.EmployeeNotes
	}
	claim.ReviewedBy = &reviewerID

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to update claim: %w", err)
	}

	payload := models.NotificationPayload{
		Title:   "Siniestro actualizado",
		Body:    fmt.Sprintf("Tu siniestro pasó a estado %s.", claim.Status),
		UserIDs: []string{claim.ClientID.String()},
	}
	if err := s.outboxRepo.Enqueue(ctx, models.OutboxNotification, payload); err != nil {
		slog.Error("error enqueueing status notification", "claim_id", claim.ID, "error", err)
	}

	return claim, nil
}

// DecideQuote lets the claim's owner approve or reject a quoted claim
func (s *ClaimService) DecideQuote(ctx context.Context, claimID uuid.UUID, clientID uuid.UUID, approve bool) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	if claim.ClientID != clientID {
		return nil, fmt.Errorf("unauthorized: claim does not belong to this client")
	}
	if claim.Status != models.ClaimQuoted {
		return nil, fmt.Errorf("invalid request: claim is not quoted")
	}

	if approve {
		claim.Status = models.ClaimApproved
	} else {
		claim.Status = models.ClaimRejected
	}

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to update claim: %w", err)
	}

	return claim, nil
}

// CancelClaim cancels a claim and enqueues the photo deletions. Object
// store cleanup runs through the outbox so a storage hiccup never blocks
// the cancellation and never disappears silently.
func (s *ClaimService) CancelClaim(ctx context.Context, claimID uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) error {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return fmt.Errorf("claim not found: %w", err)
	}
	if requesterRole == models.RoleClient && claim.ClientID != requesterID {
		return fmt.Errorf("unauthorized: claim does not belong to this client")
	}

	photos, err := s.claimRepo.GetPhotos(ctx, claimID)
	if err != nil {
		return fmt.Errorf("failed to get claim photos: %w", err)
	}

	tx, err := s.claimRepo.BeginTransaction()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	claim.Status = models.ClaimCancelled
	if err := s.claimRepo.UpdateTx(tx, claim); err != nil {
		tx.Rollback()
		slog.Error("error cancelling claim", "error", err)
		return fmt.Errorf("error cancelling claim: %w", err)
	}

	for _, photo := range photos {
		payload := models.DeletePhotoPayload{
			Bucket:     minio.Storage.ClaimPhotos,
			ObjectName: photo.ObjectName,
		}
		if err := s.outboxRepo.EnqueueTx(tx, models.OutboxDeletePhoto, payload); err != nil {
			tx.Rollback()
			slog.Error("error enqueueing photo deletion", "error", err)
			return fmt.Errorf("error enqueueing photo deletion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return fmt.Errorf("error commiting transaction: %w", err)
	}

	return nil
}

// AddPhoto uploads a claim photo to object storage and records it
func (s *ClaimService) AddPhoto(ctx context.Context, claimID uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole, filename, contentType string, reader io.Reader, size int64) (*models.ClaimPhoto, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	if requesterRole == models.RoleClient && claim.ClientID != requesterID {
		return nil, fmt.Errorf("unauthorized: claim does not belong to this client")
	}

	objectName := fmt.Sprintf("%s/%d%s", claimID, time.Now().UnixNano(), path.Ext(filename))
	if err := s.minioClient.UploadFile(ctx, minio.Storage.ClaimPhotos, objectName, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	photo := models.ClaimPhoto{
		ClaimID:    claimID,
		ObjectName: objectName,
		URL:        s.minioClient.ResourceURL(minio.Storage.ClaimPhotos, objectName),
	}
	if err := s.claimRepo.AddPhoto(ctx, &photo); err != nil {
		return nil, fmt.Errorf("failed to record photo: %w", err)
	}

	return &photo, nil
}

// DeletePhoto removes a photo record and enqueues the object deletion
func (s *ClaimService) DeletePhoto(ctx context.Context, claimID, photoID uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) error {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return fmt.Errorf("claim not found: %w", err)
	}
	if requesterRole == models.RoleClient && claim.ClientID != requesterID {
		return fmt.Errorf("unauthorized: claim does not belong to this client")
	}

	photo, err := s.claimRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("photo not found: %w", err)
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}
	if photo.ClaimID != claimID {
		return fmt.Errorf("photo not found: photo does not belong to this claim")
	}

	tx, err := s.claimRepo.BeginTransaction()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	if err := s.claimRepo.DeletePhotoTx(tx, photoID); err != nil {
		tx.Rollback()
		slog.Error("error deleting photo record", "error", err)
		return fmt.Errorf("error deleting photo record: %w", err)
	}

	payload := models.DeletePhotoPayload{
		Bucket:     minio.Storage.ClaimPhotos,
		ObjectName: photo.ObjectName,
	}
	if err := s.outboxRepo.EnqueueTx(tx, models.OutboxDeletePhoto, payload); err != nil {
		tx.Rollback()
		slog.Error("error enqueueing photo deletion", "error", err)
		return fmt.Errorf("error enqueueing photo deletion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return fmt.Errorf("error commiting transaction: %w", err)
	}

	return nil
}
