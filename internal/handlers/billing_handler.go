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

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) Register(app *fiber.App, session fiber.Handler) {
	billingGroup := app.Group("/billing", session)

	// Staff routes
	staffGroup := billingGroup.Group("", RequireRole(models.RoleEmployee, models.RoleAdmin))
	staffGroup.Get("/", h.GetAllBillings)  // GET /billing
	staffGroup.Post("/", h.CreateBilling)  // POST /billing

	// Shared routes
	billingGroup.Get("/:id", h.GetBilling)                    // GET /billing/:id
	billingGroup.Get("/claim/:claimID", h.GetBillingByClaim)  // GET /billing/claim/:claimID
}

// GetAllBillings lists every billing with its reconciled totals (staff access)
func (h *BillingHandler) GetAllBillings(c fiber.Ctx) error {
	billings, err := h.billingService.GetAllBillings(c.Context())
	if err != nil {
		slog.Error("Failed to get billings", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve billings"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("billings", billings, len(billings)))
}

// CreateBilling lazily creates the billing for a claim (staff access)
func (h *BillingHandler) CreateBilling(c fiber.Ctx) error {
	var request struct {
		ClaimID uuid.UUID `json:"claim_id"`
	}
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}
	if request.ClaimID == uuid.Nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "claim_id is required"))
	}

	detail, err := h.billingService.CreateBillingForClaim(c.Context(), request.ClaimID)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		slog.Error("Failed to create billing", "claim_id", request.ClaimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("CREATE_FAILED", "Failed to create billing"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(detail))
}

// GetBilling retrieves one billing with items, payments and totals
func (h *BillingHandler) GetBilling(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	detail, err := h.billingService.GetBillingByID(c.Context(), billingID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Billing not found"))
		}
		slog.Error("Failed to get billing", "billing_id", billingID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve billing"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(detail))
}

// GetBillingByClaim retrieves a claim's billing. A claim without billing is
// not an error: the response carries a nil billing with zeroed totals.
func (h *BillingHandler) GetBillingByClaim(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("claimID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	detail, err := h.billingService.GetBillingByClaimID(c.Context(), claimID)
	if err != nil {
		slog.Error("Failed to get billing by claim", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve billing"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(detail))
}
