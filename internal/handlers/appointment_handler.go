package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) Register(app *fiber.App, session fiber.Handler) {
	appointmentGroup := app.Group("/appointments", session)
	appointmentGroup.Post("/", h.CreateAppointment)
	appointmentGroup.Get("/", h.GetAppointments)
	appointmentGroup.Get("/:id", h.GetAppointment)
	appointmentGroup.Put("/:id", h.UpdateAppointment)
	appointmentGroup.Delete("/:id", h.DeleteAppointment)
}

// CreateAppointment books a slot for a claim. Clients can only book against
// their own open claims; exact slot collisions are rejected.
func (h *AppointmentHandler) CreateAppointment(c fiber.Ctx) error {
	var request models.CreateAppointmentRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	appointment, err := h.appointmentService.CreateAppointment(c.Context(), request, currentUserID(c), currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to book for this claim"))
		}
		slog.Error("Failed to create appointment", "claim_id", request.ClaimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("CREATE_FAILED", "Failed to create appointment"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(appointment))
}

// GetAppointments lists appointments in an optional time window. Staff see
// everything; clients only see appointments on their own claims.
func (h *AppointmentHandler) GetAppointments(c fiber.Ctx) error {
	var from, to *time.Time

	if fromParam := c.Query("from"); fromParam != "" {
		parsed, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "from must be RFC3339"))
		}
		from = &parsed
	}

	if toParam := c.Query("to"); toParam != "" {
		parsed, err := time.Parse(time.RFC3339, toParam)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", "to must be RFC3339"))
		}
		to = &parsed
	}

	appointments, err := h.appointmentService.GetAppointments(c.Context(), from, to, currentUserID(c), currentUserRole(c))
	if err != nil {
		slog.Error("Failed to get appointments", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve appointments"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("appointments", appointments, len(appointments)))
}

// GetAppointment retrieves one appointment
func (h *AppointmentHandler) GetAppointment(c fiber.Ctx) error {
	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid appointment ID format"))
	}

	appointment, err := h.appointmentService.GetAppointment(c.Context(), appointmentID, currentUserID(c), currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Appointment not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to view this appointment"))
		}
		slog.Error("Failed to get appointment", "appointment_id", appointmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve appointment"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(appointment))
}

// UpdateAppointment reschedules or transitions an appointment
func (h *AppointmentHandler) UpdateAppointment(c fiber.Ctx) error {
	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid appointment ID format"))
	}

	var request models.UpdateAppointmentRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	appointment, err := h.appointmentService.UpdateAppointment(c.Context(), appointmentID, request, currentUserID(c), currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Appointment not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to modify this appointment"))
		}
		slog.Error("Failed to update appointment", "appointment_id", appointmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update appointment"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(appointment))
}

// DeleteAppointment removes an appointment
func (h *AppointmentHandler) DeleteAppointment(c fiber.Ctx) error {
	appointmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid appointment ID format"))
	}

	if err := h.appointmentService.DeleteAppointment(c.Context(), appointmentID, currentUserID(c), currentUserRole(c)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Appointment not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to delete this appointment"))
		}
		slog.Error("Failed to delete appointment", "appointment_id", appointmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("DELETE_FAILED", "Failed to delete appointment"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"message":        "Appointment deleted",
		"appointment_id": appointmentID,
	}))
}
