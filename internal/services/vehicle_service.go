package services

import (
	"context"
	"fmt"
	"strings"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"
	"doctorcar-service/internal/utils"

	"github.com/google/uuid"
)

type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

// CreateVehicle registers a vehicle under the given owner
func (s *VehicleService) CreateVehicle(ctx context.Context, request models.CreateVehicleRequest, ownerID uuid.UUID) (*models.Vehicle, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vehicle: %w", err)
	}

	plate := strings.ToUpper(strings.TrimSpace(request.Plate))
	if !utils.ValidatePlate(plate) {
		return nil, fmt.Errorf("invalid vehicle: plate format not recognized")
	}

	vehicle := models.Vehicle{
		OwnerID: ownerID,
		Plate:   plate,
		Brand:   strings.TrimSpace(request.Brand),
		Model:   strings.TrimSpace(request.Model),
		Year:    request.Year,
		Color:   request.Color,
	}
	if err := s.vehicleRepo.Create(ctx, &vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return &vehicle, nil
}

// GetVehicle retrieves a vehicle with ownership enforcement for clients
func (s *VehicleService) GetVehicle(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vehicle not found: %w", err)
	}
	if requesterRole == models.RoleClient && vehicle.OwnerID != requesterID {
		return nil, fmt.Errorf("unauthorized: vehicle does not belong to this client")
	}

	return vehicle, nil
}

// GetVehiclesByOwner retrieves a client's vehicles
func (s *VehicleService) GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error) {
	vehicles, err := s.vehicleRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicles: %w", err)
	}

	return vehicles, nil
}

// UpdateVehicle updates a vehicle's fields with ownership enforcement
func (s *VehicleService) UpdateVehicle(ctx context.Context, id uuid.UUID, request models.CreateVehicleRequest, requesterID uuid.UUID, requesterRole models.UserRole) (*models.Vehicle, error) {
	vehicle, err := s.GetVehicle(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vehicle: %w", err)
	}

	vehicle.Plate = strings.ToUpper(strings.TrimSpace(request.Plate))
	vehicle.Brand = strings.TrimSpace(request.Brand)
	vehicle.Model = strings.TrimSpace(request.Model)
	vehicle.Year = request.Year
	vehicle.Color = request.Color

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	return vehicle, nil
}

// DeleteVehicle removes a vehicle with ownership enforcement
func (s *VehicleService) DeleteVehicle(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole models.UserRole) error {
	if _, err := s.GetVehicle(ctx, id, requesterID, requesterRole); err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	return nil
}
