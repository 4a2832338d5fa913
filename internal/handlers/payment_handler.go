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

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) Register(app *fiber.App, session fiber.Handler) {
	// Payment mutations are a staff concern; payments are recorded at the desk.
	paymentGroup := app.Group("/billing/:billingID/payments", session)

	paymentGroup.Get("/", h.GetPayments)
	paymentGroup.Get("/:paymentID/installments/:installmentID/receipt", h.GetReceiptURL)

	staffGroup := paymentGroup.Group("", RequireRole(models.RoleEmployee, models.RoleAdmin))
	staffGroup.Post("/", h.CreatePayment)
	staffGroup.Put("/:paymentID", h.UpdatePayment)
	staffGroup.Put("/:paymentID/installments/:installmentID", h.UpdateInstallment)
	staffGroup.Post("/:paymentID/installments/:installmentID/receipt", h.UploadReceipt)
}

// GetPayments lists a billing's payments with their installments
func (h *PaymentHandler) GetPayments(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("billingID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	payments, err := h.paymentService.GetPaymentsByBillingID(c.Context(), billingID)
	if err != nil {
		slog.Error("Failed to get payments", "billing_id", billingID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve payments"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateCollectionResponse("payments", payments, len(payments)))
}

// CreatePayment records a payment; the server splits the installments and
// reconciles the billing in the same transaction
func (h *PaymentHandler) CreatePayment(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("billingID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	var request models.CreatePaymentRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	payment, err := h.paymentService.CreatePayment(c.Context(), billingID, request)
	if err != nil {
		if strings.Contains(err.Error(), "Invalid") || strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Billing not found"))
		}
		slog.Error("Failed to create payment", "billing_id", billingID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("CREATE_FAILED", "Failed to create payment"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(payment))
}

// UpdatePayment patches a payment's fields and replaces its installment set
func (h *PaymentHandler) UpdatePayment(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("billingID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	paymentID, err := uuid.Parse(c.Params("paymentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid payment ID format"))
	}

	var request models.UpdatePaymentRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	payment, err := h.paymentService.UpdatePayment(c.Context(), billingID, paymentID, request)
	if err != nil {
		if strings.Contains(err.Error(), "Invalid") || strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Payment not found"))
		}
		slog.Error("Failed to update payment", "payment_id", paymentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update payment"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(payment))
}

// UpdateInstallment updates a single installment and re-reconciles the billing
func (h *PaymentHandler) UpdateInstallment(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("billingID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	paymentID, err := uuid.Parse(c.Params("paymentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid payment ID format"))
	}

	installmentID, err := uuid.Parse(c.Params("installmentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid installment ID format"))
	}

	var request models.UpdateInstallmentRequest
	if err := c.Bind().Body(&request); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	installment, err := h.paymentService.UpdateInstallment(c.Context(), billingID, paymentID, installmentID, request)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_REQUEST", err.Error()))
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Installment not found"))
		}
		slog.Error("Failed to update installment", "installment_id", installmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPDATE_FAILED", "Failed to update installment"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(installment))
}

// GetReceiptURL returns a short-lived link to an installment's receipt
func (h *PaymentHandler) GetReceiptURL(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("billingID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	paymentID, err := uuid.Parse(c.Params("paymentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid payment ID format"))
	}

	installmentID, err := uuid.Parse(c.Params("installmentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid installment ID format"))
	}

	url, err := h.paymentService.GetInstallmentReceiptURL(c.Context(), billingID, paymentID, installmentID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Receipt not found"))
		}
		slog.Error("Failed to get receipt URL", "installment_id", installmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("RETRIEVAL_FAILED", "Failed to retrieve receipt"))
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"receipt_url": url,
	}))
}

// UploadReceipt attaches a receipt file to an installment
func (h *PaymentHandler) UploadReceipt(c fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("billingID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid billing ID format"))
	}

	paymentID, err := uuid.Parse(c.Params("paymentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid payment ID format"))
	}

	installmentID, err := uuid.Parse(c.Params("installmentID"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_UUID", "Invalid installment ID format"))
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_REQUEST", "receipt file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded receipt", "installment_id", installmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPLOAD_FAILED", "Failed to read uploaded receipt"))
	}
	defer file.Close()

	installment, err := h.paymentService.UploadInstallmentReceipt(c.Context(), billingID, paymentID, installmentID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(http.StatusNotFound).JSON(
				utils.CreateErrorResponse("NOT_FOUND", "Installment not found"))
		}
		slog.Error("Failed to upload receipt", "installment_id", installmentID, "error", err)
		return c.Status(http.StatusInternalServerError).JSON(
			utils.CreateErrorResponse("UPLOAD_FAILED", "Failed to upload receipt"))
	}

	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(installment))
}
