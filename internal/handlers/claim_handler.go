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

type ClaimHandler struct {
	claimService  *services.ClaimService
	budgetService *services.BudgetService
}

func NewClaimHandler(claimService *services.ClaimService, budgetService *services.BudgetService) *ClaimHandler {
	return &ClaimHandler{
		claimService:  claimService,
		budgetService: budgetService,
	}
}

func (h *ClaimHandler) Register(app *fiber.App, session fiber.Handler) {
	claimGroup := app.Group("/claims", session)

	// ============================================================================
	// PERMISSION-BASED ROUTES
	// ============================================================================

	// Client routes - own claims only
	clientGroup := claimGroup.Group("", RequireRole(models.RoleClient))
	clientGroup.Post("/", h.CreateClaim)                 // POST /claims
	clientGroup.Get("/read-own/list", h.GetOwnClaims)    // GET /claims/read-own/list
	clientGroup.Post("/:id/decision", h.DecideQuote)     // POST /claims/:id/decision

	// Staff routes - all claims
	staffGroup := claimGroup.Group("", RequireRole(models.RoleEmployee, models.RoleAdmin))
	staffGroup.Get("/read-all/list", h.GetAllClaims) // GET /claims/read-all/list
	staffGroup.Put("/:id/status", h.UpdateStatus)    // PUT /claims/:id/status
	staffGroup.Put("/:id/budget", h.SaveBudget)      // PUT /claims/:id/budget

	// Shared routes - ownership enforced in the service for clients
	claimGroup.Get("/:id", h.GetClaimDetail)              // GET /claims/:id
	claimGroup.Get("/:id/budget", h.GetBudget)            // GET /claims/:id/budget
	claimGroup.Delete("/:id", h.CancelClaim)              // DELETE /claims/:id
	claimGroup.Post("/:id/photos", h.UploadPhoto)         // POST /claims/:id/photos
	claimGroup.Delete("/:id/photos/:photoID", h.DeletePhoto) // DELETE /claims/:id/photos/:photoID
}

// CreateClaim files a new claim for one of the client's vehicles
func (h *ClaimHandler) CreateClaim(c fiber.Ctx) error {
	var request models.CreateClaimRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.CreateClaim(c.Context(), request, currentUserID(c))
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
		slog.Error("Failed to create claim", "client_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("CREATE_FAILED", "Failed to create claim"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(claim))
}

// GetOwnClaims retrieves the authenticated client's claims
func (h *ClaimHandler) GetOwnClaims(c fiber.Ctx) error {
	claims, err := h.claimService.GetClaimsByClientID(c.Context(), currentUserID(c))
	if err != nil {
		slog.Error("Failed to get client claims", "client_id", currentUserID(c), "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve claims"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("claims", claims, len(claims)))
}

// GetAllClaims retrieves all claims with optional filters (staff access)
func (h *ClaimHandler) GetAllClaims(c fiber.Ctx) error {
	filters := make(map[string]interface{})

	if statusParam := c.Query("status"); statusParam != "" {
		filters["status"] = models.ClaimStatus(statusParam)
	}

	if clientIDParam := c.Query("client_id"); clientIDParam != "" {
		clientID, err := uuid.Parse(clientIDParam)
		if err == nil {
			filters["client_id"] = clientID
		}
	}

	if vehicleIDParam := c.Query("vehicle_id"); vehicleIDParam != "" {
		vehicleID, err := uuid.Parse(vehicleIDParam)
		if err == nil {
			filters["vehicle_id"] = vehicleID
		}
	}

	limit, err := utils.GetQueryParamAsInt(c, "limit", 0)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
	}
	if limit > 0 {
		filters["limit"] = limit
	}

	claims, err := h.claimService.GetAllClaims(c.Context(), filters)
	if err != nil {
		slog.Error("Failed to get all claims", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve claims"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("claims", claims, len(claims)))
}

// GetClaimDetail retrieves the aggregated claim view
func (h *ClaimHandler) GetClaimDetail(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	detail, err := h.claimService.GetClaimDetail(c.Context(), claimID, currentUserID(c), currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to view this claim"))
		}
		slog.Error("Failed to get claim detail", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve claim"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(detail))
}

// UpdateStatus moves a claim through its lifecycle (staff access)
func (h *ClaimHandler) UpdateStatus(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	var request models.UpdateClaimStatusRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.UpdateClaimStatus(c.Context(), claimID, request, currentUserID(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		slog.Error("Failed to update claim status", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update claim"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(claim))
}

// DecideQuote lets the client approve or reject a quoted claim
func (h *ClaimHandler) DecideQuote(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	var request struct {
		Approve bool `json:"approve"`
	}
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claim, err := h.claimService.DecideQuote(c.Context(), claimID, currentUserID(c), request.Approve)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to decide this claim"))
		}
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		slog.Error("Failed to decide quote", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update claim"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(claim))
}

// GetBudget retrieves a claim's budget items
func (h *ClaimHandler) GetBudget(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	items, err := h.budgetService.GetBudgetItems(c.Context(), claimID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		slog.Error("Failed to get budget items", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve budget"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("items", items, len(items)))
}

// SaveBudget replaces a claim's budget and quotes the claim (staff access)
func (h *ClaimHandler) SaveBudget(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	var request models.SaveBudgetRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	totals, err := h.budgetService.SaveBudget(c.Context(), claimID, request, currentUserID(c))
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		slog.Error("Failed to save budget", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to save budget"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(totals))
}

// CancelClaim cancels a claim; photo cleanup is deferred to the outbox
func (h *ClaimHandler) CancelClaim(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	if err := h.claimService.CancelClaim(c.Context(), claimID, currentUserID(c), currentUserRole(c)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to cancel this claim"))
		}
		slog.Error("Failed to cancel claim", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("DELETE_FAILED", "Failed to cancel claim"))
	}

	slog.Info("Claim cancelled", "claim_id", claimID, "cancelled_by", currentUserID(c))

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"message":  "Claim cancelled",
		"claim_id": claimID,
	}))
}

// UploadPhoto attaches a photo to a claim
func (h *ClaimHandler) UploadPhoto(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "photo file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded photo", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPLOAD_FAILED", "Failed to read uploaded photo"))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	photo, err := h.claimService.AddPhoto(c.Context(), claimID, currentUserID(c), currentUserRole(c),
		fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to modify this claim"))
		}
		slog.Error("Failed to upload claim photo", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPLOAD_FAILED", "Failed to upload photo"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(photo))
}

// DeletePhoto detaches a photo from a claim
func (h *ClaimHandler) DeletePhoto(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	photoID, err := uuid.Parse(c.Params("photoID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid photo ID format"))
	}

	if err := h.claimService.DeletePhoto(c.Context(), claimID, photoID, currentUserID(c), currentUserRole(c)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Photo not found"))
		}
		if strings.Contains(err.Error(), "unauthorized") {
			return c.Status(http.StatusForbidden).JSON(
				utils.CreateErrorResponse("FORBIDDEN", "You do not have permission to modify this claim"))
		}
		slog.Error("Failed to delete claim photo", "claim_id", claimID, "photo_id", photoID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("DELETE_FAILED", "Failed to delete photo"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"message":  "Photo deleted",
		"photo_id": photoID,
	}))
}
