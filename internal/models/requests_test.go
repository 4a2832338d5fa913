package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSaveBudgetRequestValidate(t *testing.T) {
	valid := SaveBudgetRequest{
		Items: []BudgetItemInput{
			{Description: "Pintura de puerta", Quantity: 2, UnitPrice: 50},
			{Description: "Mano de obra", Quantity: 3, UnitPrice: 50},
		},
	}
	assert.NoError(t, valid.Validate())

	empty := SaveBudgetRequest{}
	assert.Error(t, empty.Validate())

	blankDescription := SaveBudgetRequest{
		Items: []BudgetItemInput{{Description: "   ", Quantity: 1, UnitPrice: 10}},
	}
	err := blankDescription.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")

	zeroQuantity := SaveBudgetRequest{
		Items: []BudgetItemInput{{Description: "Repuesto", Quantity: 0, UnitPrice: 10}},
	}
	err = zeroQuantity.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")

	negativePrice := SaveBudgetRequest{
		Items: []BudgetItemInput{{Description: "Repuesto", Quantity: 1, UnitPrice: -5}},
	}
	err = negativePrice.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unit price")
}

func TestSaveBudgetRequestValidateReportsItemIndex(t *testing.T) {
	request := SaveBudgetRequest{
		Items: []BudgetItemInput{
			{Description: "Repuesto", Quantity: 1, UnitPrice: 10},
			{Description: "", Quantity: 1, UnitPrice: 10},
		},
	}
	err := request.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "item 2")
}

func TestCreatePaymentRequestValidate(t *testing.T) {
	valid := CreatePaymentRequest{Amount: 250, PaymentMethod: MethodCash}
	assert.NoError(t, valid.Validate())

	zeroAmount := CreatePaymentRequest{Amount: 0}
	err := zeroAmount.Validate()
	assert.Error(t, err)
	assert.Equal(t, "Invalid payment amount", err.Error())

	negativeAmount := CreatePaymentRequest{Amount: -10}
	err = negativeAmount.Validate()
	assert.Error(t, err)
	assert.Equal(t, "Invalid payment amount", err.Error())

	badMethod := CreatePaymentRequest{Amount: 100, PaymentMethod: PaymentMethod("crypto")}
	assert.Error(t, badMethod.Validate())

	negativeInstallments := CreatePaymentRequest{Amount: 100, CardInstallments: -1}
	assert.Error(t, negativeInstallments.Validate())
}

func TestUpdatePaymentRequestValidate(t *testing.T) {
	amount := 500.0
	oneInstallment := []InstallmentInput{{Amount: 500}}

	valid := UpdatePaymentRequest{Amount: &amount, Installments: oneInstallment}
	assert.NoError(t, valid.Validate())

	zero := 0.0
	invalid := UpdatePaymentRequest{Amount: &zero, Installments: oneInstallment}
	err := invalid.Validate()
	assert.Error(t, err)
	assert.Equal(t, "Invalid payment amount", err.Error())

	// Nil amount means "leave unchanged" and is acceptable
	assert.NoError(t, UpdatePaymentRequest{Installments: oneInstallment}.Validate())
}

func TestUpdatePaymentRequestValidateRejectsEmptyInstallments(t *testing.T) {
	// The update replaces the whole installment set; accepting an empty
	// set would silently collapse the schedule to a single synthesized row.
	err := UpdatePaymentRequest{}.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "installments")

	err = UpdatePaymentRequest{Installments: []InstallmentInput{}}.Validate()
	assert.Error(t, err)
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateProfileRequest{FullName: "Ana García"}.Validate())
	assert.Error(t, UpdateProfileRequest{FullName: "   "}.Validate())
}

func TestUpdateInstallmentRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateInstallmentRequest{Status: InstallmentPaid}.Validate())
	assert.NoError(t, UpdateInstallmentRequest{Status: InstallmentPending}.Validate())
	assert.Error(t, UpdateInstallmentRequest{Status: InstallmentStatus("settled")}.Validate())
}

func TestCreateClaimRequestValidate(t *testing.T) {
	valid := CreateClaimRequest{VehicleID: uuid.New(), Description: "Choque frontal en estacionamiento"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, CreateClaimRequest{Description: "sin vehiculo"}.Validate())
	assert.Error(t, CreateClaimRequest{VehicleID: uuid.New(), Description: ""}.Validate())
}

func TestCreateAppointmentRequestValidate(t *testing.T) {
	assert.Error(t, CreateAppointmentRequest{}.Validate())
	assert.Error(t, CreateAppointmentRequest{ClaimID: uuid.New()}.Validate())
}
