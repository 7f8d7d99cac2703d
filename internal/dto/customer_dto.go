package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	TaxNumber string `json:"tax_number"`
	TaxOffice string `json:"tax_office"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Email     string `json:"email" validate:"omitempty,email"`
	Notes     string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	TaxNumber *string `json:"tax_number"`
	TaxOffice *string `json:"tax_office"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Notes     *string `json:"notes"`
}

// RecordPaymentRequest is the quick-action body for POST /v1/customers/:id/payments.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Note   string          `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TaxNumber string          `json:"tax_number,omitempty"`
	TaxOffice string          `json:"tax_office,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Email     string          `json:"email,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// CustomerStatementResponse backs the per-customer statement view: the
// customer plus their full transaction history, most recent first.
type CustomerStatementResponse struct {
	Customer     CustomerResponse      `json:"customer"`
	Transactions []TransactionResponse `json:"transactions"`
}
