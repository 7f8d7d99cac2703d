package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ───────────────────────────────────────────────────────────

// TransactionFilter is bound from the query string of GET /v1/transactions.
type TransactionFilter struct {
	Type       string `form:"type,default=ALL" validate:"omitempty,oneof=ALL SALE PURCHASE PAYMENT EXPENSE"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1" validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateTransactionRequest is the manual form submission. PAYMENT uses only
// customer_id and amount; SALE/PURCHASE use product, quantity and unit price.
type CreateTransactionRequest struct {
	Type        string           `json:"type" validate:"required,oneof=SALE PURCHASE PAYMENT"`
	CustomerID  string           `json:"customer_id" validate:"required"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount"`
	Note        string           `json:"note"`
}

// UpdateTransactionRequest edits amounts/linkage of an existing entry.
// The owning balances and stock are recomputed from the full history after
// the edit — the request never patches them directly.
type UpdateTransactionRequest struct {
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Note        *string          `json:"note"`
	Date        *string          `json:"date"` // RFC 3339
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	ProductID     string          `json:"product_id,omitempty"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      int             `json:"quantity,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	PaymentStatus string          `json:"payment_status"`
	Note          string          `json:"note,omitempty"`
}
