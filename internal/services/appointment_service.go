package services

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/google/uuid"
)

type AppointmentService struct {
	appointmentRepo *repository.AppointmentRepository
	claimRepo       *repository.ClaimRepository
}

func NewAppointmentService(
	appointmentRepo *repository.AppointmentRepository,
	claimRepo *repository.ClaimRepository,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		claimRepo:       claimRepo,
	}
}

// CreateAppointment schedules an appointment for a claim. Clients can only
// schedule against their own claims; the slot must be free.
func (s *AppointmentService) CreateAppointment(ctx context.Context, request models.CreateAppointmentRequest, requesterID uuid.UUID, requesterRole models.UserRole) (*models.Appointment, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	claim, err := s.claimRepo.GetByID(ctx, request.ClaimID)
	if err != nil {
		return nil, fmt.Errorf("claim not found: %w", err)
	}
	if requesterRole == models.RoleClient && claim.ClientID != requesterID {
		return nil, fmt.Errorf("unauthorized: claim does not belong to this client")
	}
	if !claim.IsOpen() {
		return nil, fmt.Errorf("invalid request: claim %s is closed", claim.Status)
	}

	taken, err := s.appointmentRepo.HasOverlap(ctx, request.ScheduledAt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check appointment slot: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("invalid request: time slot is already taken")
	}

	appointment := models.Appointment{
		ClaimID:     request.ClaimID,
		ScheduledAt: request.ScheduledAt,
		Status:      models.AppointmentScheduled,
		Notes:       request.Notes,
	}
	if err := s.appointmentRepo.Create(ctx, &appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	return &appointment, nil
}

// GetAppointment retrieves an appointment with claim ownership enforcement
// for clients
func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("appointment not found: %w", err)
	}

	if requesterRole == models.RoleClient {
		claim, err := s.claimRepo.GetByID(ctx, appointment.ClaimID)
		if err != nil {
			return nil, fmt.Errorf("claim not found: %w", err)
		}
		if claim.ClientID != requesterID {
			return nil, fmt.Errorf("unauthorized: appointment does not belong to this client")
		}
	}

	return appointment, nil
}

// GetAppointments lists appointments: staff see the full agenda in an
// optional window, clients see appointments on their own claims.
func (s *AppointmentService) GetAppointments(ctx context.Context, from, to *time.Time, requesterID uuid.UUID, requesterRole models.UserRole) ([]models.Appointment, error) {
	appointments, err := s.appointmentRepo.GetAll(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments: %w", err)
	}

	if requesterRole != models.RoleClient {
		return appointments, nil
	}

	claims, err := s.claimRepo.GetByClientID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims for client: %w", err)
	}
	owned := make(map[uuid.UUID]bool, len(claims))
	for _, c := range claims {
		owned[c.ID] = true
	}

	filtered := make([]models.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if owned[a.ClaimID] {
			filtered = append(filtered, a)
		}
	}

	return filtered, nil
}

// UpdateAppointment reschedules or re-states an appointment
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id uuid.UUID, request models.UpdateAppointmentRequest, requesterID uuid.UUID, requesterRole models.UserRole) (*models.Appointment, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	appointment, err := s.GetAppointment(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}

	if request.ScheduledAt != nil && !request.ScheduledAt.Equal(appointment.ScheduledAt) {
		taken, err := s.appointmentRepo.HasOverlap(ctx, *request.ScheduledAt, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check appointment slot: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("invalid request: time slot is already taken")
		}
		appointment.ScheduledAt = *request.ScheduledAt
	}
	if request.Status != nil {
		appointment.Status = *request.Status
	}
	if request.Notes != nil {
		appointment.Notes = request.Notes
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	return appointment, nil
}

// DeleteAppointment removes an appointment
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) error {
	if _, err := s.GetAppointment(ctx, id, requesterID, requesterRole); err != nil {
		return err
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	return nil
}
