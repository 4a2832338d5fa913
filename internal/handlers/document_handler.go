package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/utils"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	outboxRepo      *repository.OutboxRepository
}

func NewDocumentHandler(documentService *services.DocumentService, outboxRepo *repository.OutboxRepository) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		outboxRepo:      outboxRepo,
	}
}

func (h *DocumentHandler) Register(app *fiber.App, session fiber.Handler) {
	documentGroup := app.Group("/documents", session)
	documentGroup.Get("/claims/:id/pdf", h.GetClaimPDF)
}

// GetClaimPDF renders the claim document and streams it back. A copy is
// archived to object storage through the outbox so a storage outage never
// blocks the download.
func (h *DocumentHandler) GetClaimPDF(c fiber.Ctx) error {
	claimID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid claim ID format"))
	}

	pdfBytes, objectName, err := h.documentService.RenderClaimPDF(c.Context(), claimID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Claim not found"))
		}
		slog.Error("Failed to render claim PDF", "claim_id", claimID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RENDER_FAILED", "Failed to generate document"))
	}

	archivePayload := models.ArchiveInvoicePayload{
		ClaimID:    claimID,
		ObjectName: objectName,
	}
	if err := h.outboxRepo.Enqueue(c.Context(), models.OutboxArchiveInvoice, archivePayload); err != nil {
		slog.Error("Failed to enqueue document archive", "claim_id", claimID, "error", err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("siniestro-%s.pdf", claimID)))
	return c.Status(http.StatusOK).Send(pdfBytes)
}
