package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

func (h *VehicleHandler) Register(app *fiber.App, session fiber.Handler) {
	vehicleGroup := app.Group("/vehicles", session)
	vehicleGroup.Post("/", h.CreateVehicle)
	vehicleGroup.Get("/", h.GetOwnVehicles)
	vehicleGroup.Get("/:id", h.GetVehicle)
	vehicleGroup.Put("/:id", h.UpdateVehicle)
	vehicleGroup.Delete("/:id", h.DeleteVehicle)
}

// CreateVehicle registers a vehicle under the signed-in client
func (h *VehicleHandler) CreateVehicle(c fiber.Ctx) error {
	var request models.CreateVehicleRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Context(), request, currentUserID(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		slog.Error("Failed to create vehicle", "owner_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("CREATE_FAILED", "Failed to create vehicle"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(vehicle))
}

// GetOwnVehicles lists the signed-in user's vehicles
func (h *VehicleHandler) GetOwnVehicles(c fiber.Ctx) error {
	vehicles, err := h.vehicleService.GetVehiclesByOwner(c.Context(), currentUserID(c))
	if err != nil {
		slog.Error("Failed to get vehicles", "owner_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve vehicles"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("vehicles", vehicles, len(vehicles)))
}

// GetVehicle retrieves one vehicle; clients can only read their own
func (h *VehicleHandler) GetVehicle(c fiber.Ctx) error {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid vehicle ID format"))
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Context(), vehicleID, currentUserID(c), currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Vehicle not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "Vehicle does not belong to you"))
		}
		slog.Error("Failed to get vehicle", "vehicle_id", vehicleID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve vehicle"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(vehicle))
}

// UpdateVehicle updates a vehicle's details
func (h *VehicleHandler) UpdateVehicle(c fiber.Ctx) error {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid vehicle ID format"))
	}

	var request models.CreateVehicleRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Context(), vehicleID, request, currentUserID(c), currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Vehicle not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "Vehicle does not belong to you"))
		}
		slog.Error("Failed to update vehicle", "vehicle_id", vehicleID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update vehicle"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(vehicle))
}

// DeleteVehicle removes a vehicle
func (h *VehicleHandler) DeleteVehicle(c fiber.Ctx) error {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid vehicle ID format"))
	}

	if err := h.vehicleService.DeleteVehicle(c.Context(), vehicleID, currentUserID(c), currentUserRole(c)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Vehicle not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "Vehicle does not belong to you"))
		}
		slog.Error("Failed to delete vehicle", "vehicle_id", vehicleID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("DELETE_FAILED", "Failed to delete vehicle"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"message":    "Vehicle deleted",
		"vehicle_id": vehicleID,
	}))
}
