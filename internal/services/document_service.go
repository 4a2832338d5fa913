package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"doctorcar-service/internal/database/minio"
	"doctorcar-service/internal/models"
	"doctorcar-service/internal/repository"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DocumentService renders claim paperwork as PDF and archives copies to
// object storage.
type DocumentService struct {
	claimRepo      *repository.ClaimRepository
	vehicleRepo    *repository.VehicleRepository
	userRepo       *repository.UserRepository
	budgetItemRepo *repository.BudgetItemRepository
	billingRepo    *repository.BillingRepository
	minioClient    *minio.MinioClient
}

func NewDocumentService(
	claimRepo *repository.ClaimRepository,
	vehicleRepo *repository.VehicleRepository,
	userRepo *repository.UserRepository,
	budgetItemRepo *repository.BudgetItemRepository,
	billingRepo *repository.BillingRepository,
	minioClient *minio.MinioClient,
) *DocumentService {
	return &DocumentService{
		claimRepo:      claimRepo,
		vehicleRepo:    vehicleRepo,
		userRepo:       userRepo,
		budgetItemRepo: budgetItemRepo,
		billingRepo:    billingRepo,
		minioClient:    minioClient,
	}
}

// RenderClaimPDF builds the claim summary document: claim data, budget
// lines and money totals. Returns the PDF bytes and the object name under
// which a copy should be archived.
func (s *DocumentService) RenderClaimPDF(ctx context.Context, claimID uuid.UUID) ([]byte, string, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, "", fmt.Errorf("claim not found: %w", err)
	}

	var vehicle *models.Vehicle
	if v, err := s.vehicleRepo.GetByID(ctx, claim.VehicleID); err == nil {
		vehicle = v
	}
	var client *models.User
	if u, err := s.userRepo.GetByID(ctx, claim.ClientID); err == nil {
		client = u
	}

	items, err := s.budgetItemRepo.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get budget items: %w", err)
	}
	totals := ComputeBudgetTotals(items)

	var billing *models.Billing
	if b, err := s.billingRepo.GetByClaimID(ctx, claimID); err == nil {
		billing = b
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("failed to get billing: %w", err)
	}

	description, err := claimPageDescription(claim, vehicle, client, items, totals, billing)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build page description: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(description), &buf, nil); err != nil {
		return nil, "", fmt.Errorf("failed to create PDF: %w", err)
	}

	objectName := fmt.Sprintf("claims/%s/%d.pdf", claimID, time.Now().Unix())
	return buf.Bytes(), objectName, nil
}

// ArchiveClaimPDF re-renders a claim document and stores it in the
// documents bucket. Called from the outbox dispatcher so a storage failure
// is retried instead of lost.
func (s *DocumentService) ArchiveClaimPDF(ctx context.Context, claimID uuid.UUID, objectName string) error {
	pdf, _, err := s.RenderClaimPDF(ctx, claimID)
	if err != nil {
		return err
	}

	if err := s.minioClient.UploadBytes(ctx, minio.Storage.ClaimDocuments, objectName, pdf, "application/pdf"); err != nil {
		return fmt.Errorf("failed to archive claim PDF: %w", err)
	}

	slog.Info("archived claim PDF", "claim_id", claimID, "object", objectName)
	return nil
}

// pdfText is one positioned text element in the generated page.
type pdfText struct {
	Value    string    `json:"value"`
	Position []float64 `json:"position"`
	Font     pdfFont   `json:"font"`
}

type pdfFont struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

// claimPageDescription produces the JSON page description consumed by
// pdfcpu's create API.
func claimPageDescription(
	claim *models.Claim,
	vehicle *models.Vehicle,
	client *models.User,
	items []models.BudgetItem,
	totals models.BudgetTotals,
	billing *models.Billing,
) ([]byte, error) {
	const (
		left    = 50.0
		top     = 780.0
		lineGap = 18.0
	)

	texts := []pdfText{
		{Value: "Doctor Car - Detalle de siniestro", Position: []float64{left, top}, Font: pdfFont{Name: "Helvetica-Bold", Size: 16}},
		{Value: fmt.Sprintf("Siniestro: %s", claim.ID), Position: []float64{left, top - 2*lineGap}, Font: pdfFont{Name: "Helvetica", Size: 10}},
		{Value: fmt.Sprintf("Estado: %s", claim.Status), Position: []float64{left, top - 3*lineGap}, Font: pdfFont{Name: "Helvetica", Size: 10}},
		{Value: fmt.Sprintf("Fecha: %s", claim.CreatedAt.Format("2006-01-02")), Position: []float64{left, top - 4*lineGap}, Font: pdfFont{Name: "Helvetica", Size: 10}},
	}

	y := top - 5*lineGap
	if client != nil {
		texts = append(texts, pdfText{Value: fmt.Sprintf("Cliente: %s (%s)", client.FullName, client.Email), Position: []float64{left, y}, Font: pdfFont{Name: "Helvetica", Size: 10}})
		y -= lineGap
	}
	if vehicle != nil {
		texts = append(texts, pdfText{Value: fmt.Sprintf("Vehiculo: %s %s - %s", vehicle.Brand, vehicle.Model, vehicle.Plate), Position: []float64{left, y}, Font: pdfFont{Name: "Helvetica", Size: 10}})
		y -= lineGap
	}

	y -= lineGap
	texts = append(texts, pdfText{Value: "Presupuesto", Position: []float64{left, y}, Font: pdfFont{Name: "Helvetica-Bold", Size: 12}})
	y -= lineGap
	for _, item := range items {
		line := fmt.Sprintf("%s  x%.2f  $%.2f  = $%.2f", item.Description, item.Quantity, item.UnitPrice, item.Total)
		texts = append(texts, pdfText{Value: line, Position: []float64{left, y}, Font: pdfFont{Name: "Helvetica", Size: 10}})
		y -= lineGap
	}

	y -= lineGap
	texts = append(texts, pdfText{Value: fmt.Sprintf("Subtotal: $%.2f", totals.Subtotal), Position: []float64{left, y}, Font: pdfFont{Name: "Helvetica-Bold", Size: 11}})
	y -= lineGap

	if billing != nil {
		texts = append(texts,
			pdfText{Value: fmt.Sprintf("Pagado: $%.2f", billing.PaidAmount), Position: []float64{left, y}, Font: pdfFont{Name: "Helvetica", Size: 10}},
			pdfText{Value: fmt.Sprintf("Saldo: $%.2f", billing.Balance), Position: []float64{left, y - lineGap}, Font: pdfFont{Name: "Helvetica", Size: 10}},
			pdfText{Value: fmt.Sprintf("Estado de cobro: %s", billing.Status), Position: []float64{left, y - 2*lineGap}, Font: pdfFont{Name: "Helvetica", Size: 10}},
		)
	}

	description := map[string]interface{}{
		"paper": "A4",
		"pages": map[string]interface{}{
			"1": map[string]interface{}{
				"content": map[string]interface{}{
					"text": texts,
				},
			},
		},
	}

	return json.Marshal(description)
}
