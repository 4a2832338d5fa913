package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"doctorcar-service/internal/database/minio"
	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// defaultInstallmentInterval spaces generated due dates when the caller
// does not supply them.
const defaultInstallmentInterval = 30 * 24 * time.Hour

type PaymentService struct {
	billingRepo     *repository.BillingRepository
	paymentRepo     *repository.PaymentRepository
	installmentRepo *repository.InstallmentRepository
	claimRepo       *repository.ClaimRepository
	outboxRepo      *repository.OutboxRepository
	minioClient     *minio.MinioClient
}

func NewPaymentService(
	billingRepo *repository.BillingRepository,
	paymentRepo *repository.PaymentRepository,
	installmentRepo *repository.InstallmentRepository,
	claimRepo *repository.ClaimRepository,
	outboxRepo *repository.OutboxRepository,
	minioClient *minio.MinioClient,
) *PaymentService {
	return &PaymentService{
		billingRepo:     billingRepo,
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		claimRepo:       claimRepo,
		outboxRepo:      outboxRepo,
		minioClient:     minioClient,
	}
}

// GetPaymentsByBillingID retrieves a billing's payments with their
// installments
func (s *PaymentService) GetPaymentsByBillingID(ctx context.Context, billingID uuid.UUID) ([]models.PaymentWithInstallments, error) {
	if _, err := s.billingRepo.GetByID(ctx, billingID); err != nil {
		return nil, fmt.Errorf("billing not found: %w", err)
	}

	payments, err := s.paymentRepo.GetByBillingID(ctx, billingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	out := make([]models.PaymentWithInstallments, 0, len(payments))
	for i := range payments {
		installments, err := s.installmentRepo.GetByPaymentID(ctx, payments[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get installments: %w", err)
		}
		out = append(out, models.PaymentWithInstallments{
			Payment:      payments[i],
			Installments: installments,
		})
	}

	return out, nil
}

// CreatePayment registers a payment against a billing, splits it into
// server-computed installments and reconciles the billing, all in one
// transaction. A non-positive amount is rejected before any row is written.
func (s *PaymentService) CreatePayment(ctx context.Context, billingID uuid.UUID, request models.CreatePaymentRequest) (*models.PaymentWithInstallments, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.billingRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	billing, err := s.billingRepo.GetForUpdateTx(tx, billingID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("billing not found: %w", err)
	}

	method := request.PaymentMethod
	if method == "" {
		method = models.MethodOther
	}

	payment := models.Payment{
		BillingID:        billing.ID,
		Amount:           request.Amount,
		PaymentMethod:    method,
		CardInstallments: request.CardInstallments,
		CardInterestRate: request.CardInterestRate,
		BankName:         request.BankName,
		ReceiptURL:       request.ReceiptURL,
		Notes:            request.Notes,
		Status:           models.PaymentPending,
	}
	if err := s.paymentRepo.CreateTx(tx, &payment); err != nil {
		tx.Rollback()
		slog.Error("error creating payment", "error", err)
		return nil, fmt.Errorf("error creating payment: %w", err)
	}

	count := InstallmentCount(request.CardInstallments, len(request.Installments))
	drafts := SplitInstallments(request.Amount, request.CardInterestRate, count, firstDueDate(request.Installments), defaultInstallmentInterval)

	installments := make([]models.Installment, len(drafts))
	for i, draft := range drafts {
		due := draft.DueDate
		if i < len(request.Installments) && request.Installments[i].DueDate != nil {
			due = request.Installments[i].DueDate
		}

		installments[i] = models.Installment{
			PaymentID:         payment.ID,
			InstallmentNumber: draft.Number,
			InstallmentAmount: draft.Amount,
			DueDate:           due,
			Status:            models.InstallmentPending,
		}
		if err := s.installmentRepo.CreateTx(tx, &installments[i]); err != nil {
			tx.Rollback()
			slog.Error("error creating installment", "error", err)
			return nil, fmt.Errorf("error creating installment: %w", err)
		}
	}

	if err := s.reconcileTx(tx, billing); err != nil {
		tx.Rollback()
		return nil, err
	}

	if claim, err := s.claimRepo.GetByID(ctx, billing.ClaimID); err == nil {
		payload := models.PaymentReceivedPayload{
			UserID: claim.ClientID.String(),
			Amount: payment.Amount,
		}
		if err := s.outboxRepo.EnqueueTx(tx, models.OutboxPaymentReceived, payload); err != nil {
			tx.Rollback()
			slog.Error("error enqueueing payment notification", "error", err)
			return nil, fmt.Errorf("error enqueueing payment notification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return nil, fmt.Errorf("error commiting transaction: %w", err)
	}

	return &models.PaymentWithInstallments{Payment: payment, Installments: installments}, nil
}

// UpdatePayment replaces a payment: scalar fields patch in (nil leaves the
// stored value), the installment set is deleted and reinserted from the
// request, and the billing is fully reconciled in the same transaction.
func (s *PaymentService) UpdatePayment(ctx context.Context, billingID, paymentID uuid.UUID, request models.UpdatePaymentRequest) (*models.PaymentWithInstallments, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}
	if payment.BillingID != billingID {
		return nil, fmt.Errorf("payment not found: payment does not belong to this billing")
	}

	tx, err := s.billingRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	billing, err := s.billingRepo.GetForUpdateTx(tx, billingID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("billing not found: %w", err)
	}

	applyPaymentPatch(payment, request)

	if err := s.installmentRepo.DeleteByPaymentIDTx(tx, payment.ID); err != nil {
		tx.Rollback()
		slog.Error("error deleting installments", "error", err)
		return nil, fmt.Errorf("error deleting installments: %w", err)
	}

	count := InstallmentCount(payment.CardInstallments, len(request.Installments))
	drafts := SplitInstallments(payment.Amount, payment.CardInterestRate, count, firstDueDate(request.Installments), defaultInstallmentInterval)

	installments := make([]models.Installment, len(drafts))
	for i, draft := range drafts {
		installments[i] = models.Installment{
			PaymentID:         payment.ID,
			InstallmentNumber: draft.Number,
			InstallmentAmount: draft.Amount,
			DueDate:           draft.DueDate,
			Status:            models.InstallmentPending,
		}
		if i < len(request.Installments) {
			input := request.Installments[i]
			if input.DueDate != nil {
				installments[i].DueDate = input.DueDate
			}
			if input.Status != "" {
				if !models.IsValidInstallmentStatus(input.Status) {
					tx.Rollback()
					return nil, fmt.Errorf("invalid installment status=%v", input.Status)
				}
				installments[i].Status = input.Status
			}
			installments[i].ReceiptURL = input.ReceiptURL
			installments[i].PaymentDate = input.PaymentDate
			installments[i].Notes = input.Notes
		}
		if err := s.installmentRepo.CreateTx(tx, &installments[i]); err != nil {
			tx.Rollback()
			slog.Error("error creating installment", "error", err)
			return nil, fmt.Errorf("error creating installment: %w", err)
		}
	}

	payment.Status = PaymentStatusFrom(installments)
	if err := s.paymentRepo.UpdateTx(tx, payment); err != nil {
		tx.Rollback()
		slog.Error("error updating payment", "error", err)
		return nil, fmt.Errorf("error updating payment: %w", err)
	}

	if err := s.reconcileTx(tx, billing); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return nil, fmt.Errorf("error commiting transaction: %w", err)
	}

	return &models.PaymentWithInstallments{Payment: *payment, Installments: installments}, nil
}

// UpdateInstallment updates one installment's settlement fields, re-derives
// the payment status and fully reconciles the billing across all payments,
// in one transaction.
func (s *PaymentService) UpdateInstallment(ctx context.Context, billingID, paymentID, installmentID uuid.UUID, request models.UpdateInstallmentRequest) (*models.Installment, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}
	if payment.BillingID != billingID {
		return nil, fmt.Errorf("payment not found: payment does not belong to this billing")
	}

	tx, err := s.billingRepo.BeginTransaction()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	billing, err := s.billingRepo.GetForUpdateTx(tx, billingID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("billing not found: %w", err)
	}

	installments, err := s.installmentRepo.GetByPaymentIDTx(tx, payment.ID)
	if err != nil {
		tx.Rollback()
		slog.Error("error loading installments", "error", err)
		return nil, fmt.Errorf("error loading installments: %w", err)
	}

	var target *models.Installment
	for i := range installments {
		if installments[i].ID == installmentID {
			target = &installments[i]
			break
		}
	}
	if target == nil {
		tx.Rollback()
		return nil, fmt.Errorf("installment not found: %s", installmentID)
	}

	target.Status = request.Status
	if request.ReceiptURL != nil {
		target.ReceiptURL = request.ReceiptURL
	}
	if request.PaymentDate != nil {
		target.PaymentDate = request.PaymentDate
	} else if request.Status == models.InstallmentPaid && target.PaymentDate == nil {
		now := time.Now()
		target.PaymentDate = &now
	}
	if request.Notes != nil {
		target.Notes = request.Notes
	}

	if err := s.installmentRepo.UpdateTx(tx, target); err != nil {
		tx.Rollback()
		slog.Error("error updating installment", "error", err)
		return nil, fmt.Errorf("error updating installment: %w", err)
	}

	if status := PaymentStatusFrom(installments); status != payment.Status {
		if err := s.paymentRepo.UpdateStatusTx(tx, payment.ID, status); err != nil {
			tx.Rollback()
			slog.Error("error updating payment status", "error", err)
			return nil, fmt.Errorf("error updating payment status: %w", err)
		}
	}

	if err := s.reconcileTx(tx, billing); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		slog.Error("error commiting transaction", "error", err)
		return nil, fmt.Errorf("error commiting transaction: %w", err)
	}

	return target, nil
}

// receiptURLExpiry bounds how long a presigned receipt link stays valid.
const receiptURLExpiry = 15 * time.Minute

// UploadInstallmentReceipt stores a receipt file for an installment. The
// receipts bucket is private, so the record keeps the object name and
// GetInstallmentReceiptURL presigns it on read.
func (s *PaymentService) UploadInstallmentReceipt(ctx context.Context, billingID, paymentID, installmentID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.Installment, error) {
	installment, err := s.getOwnedInstallment(ctx, billingID, paymentID, installmentID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/%d%s", installmentID, time.Now().UnixNano(), path.Ext(filename))
	if err := s.minioClient.UploadFile(ctx, minio.Storage.InstallmentReceipts, objectName, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	return s.UpdateInstallment(ctx, billingID, paymentID, installmentID, models.UpdateInstallmentRequest{
		Status:     installment.Status,
		ReceiptURL: &objectName,
	})
}

// GetInstallmentReceiptURL returns a link to an installment's receipt. An
// externally supplied URL passes through untouched; an uploaded object gets
// a short-lived presigned URL.
func (s *PaymentService) GetInstallmentReceiptURL(ctx context.Context, billingID, paymentID, installmentID uuid.UUID) (string, error) {
	installment, err := s.getOwnedInstallment(ctx, billingID, paymentID, installmentID)
	if err != nil {
		return "", err
	}
	if installment.ReceiptURL == nil || *installment.ReceiptURL == "" {
		return "", fmt.Errorf("receipt not found: installment has no receipt")
	}

	if strings.HasPrefix(*installment.ReceiptURL, "http://") || strings.HasPrefix(*installment.ReceiptURL, "https://") {
		return *installment.ReceiptURL, nil
	}

	url, err := s.minioClient.GetPresignedURL(ctx, minio.Storage.InstallmentReceipts, *installment.ReceiptURL, receiptURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign receipt: %w", err)
	}

	return url, nil
}

// getOwnedInstallment loads an installment and checks the
// billing/payment/installment chain matches the request path.
func (s *PaymentService) getOwnedInstallment(ctx context.Context, billingID, paymentID, installmentID uuid.UUID) (*models.Installment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}
	if payment.BillingID != billingID {
		return nil, fmt.Errorf("payment not found: payment does not belong to this billing")
	}

	installment, err := s.installmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("installment not found: %w", err)
	}
	if installment.PaymentID != paymentID {
		return nil, fmt.Errorf("installment not found: installment does not belong to this payment")
	}

	return installment, nil
}

// reconcileTx recomputes the locked billing's money columns from every
// installment under every payment and persists them. Callers must hold the
// row lock from GetForUpdateTx.
func (s *PaymentService) reconcileTx(tx *sqlx.Tx, billing *models.Billing) error {
	installments, err := s.installmentRepo.GetByBillingIDTx(tx, billing.ID)
	if err != nil {
		slog.Error("error loading installments for reconcile", "error", err)
		return fmt.Errorf("error loading installments for reconcile: %w", err)
	}

	billing.PaidAmount, billing.Balance, billing.Status = ReconcileBilling(billing.TotalAmount, installments)
	if err := s.billingRepo.UpdateTx(tx, billing); err != nil {
		slog.Error("error updating billing", "error", err)
		return fmt.Errorf("error updating billing: %w", err)
	}

	return nil
}

func applyPaymentPatch(payment *models.Payment, request models.UpdatePaymentRequest) {
	if request.Amount != nil {
		payment.Amount = *request.Amount
	}
	if request.PaymentMethod != nil {
		payment.PaymentMethod = *request.PaymentMethod
	}
	if request.CardInstallments != nil {
		payment.CardInstallments = *request.CardInstallments
	}
	if request.CardInterestRate != nil {
		payment.CardInterestRate = *request.CardInterestRate
	}
	if request.BankName != nil {
		payment.BankName = request.BankName
	}
	if request.ReceiptURL != nil {
		payment.ReceiptURL = request.ReceiptURL
	}
	if request.Notes != nil {
		payment.Notes = request.Notes
	}
	if request.PaymentDate != nil {
		payment.PaymentDate = request.PaymentDate
	}
}

func firstDueDate(inputs []models.InstallmentInput) *time.Time {
	if len(inputs) > 0 && inputs[0].DueDate != nil {
		return inputs[0].DueDate
	}
	return nil
}
