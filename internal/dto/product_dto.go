package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=120"`
	SKU           string           `json:"sku"`
	StockCount    int              `json:"stock_count" validate:"min=0"`
	UnitPrice     decimal.Decimal  `json:"unit_price" validate:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	Category      string           `json:"category"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=120"`
	SKU           *string          `json:"sku"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	Category      *string          `json:"category"`
}

// AdjustStockRequest sets the stock count to an absolute value (manual
// recount), not a delta.
type AdjustStockRequest struct {
	NewCount int `json:"new_count" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	StockCount    int             `json:"stock_count"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	Category      string          `json:"category"`
	CreatedAt     string          `json:"created_at"`
}
