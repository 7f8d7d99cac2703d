package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item with a running stock count.
//
// StockCount invariant: initial stock plus all PURCHASE quantities minus all
// SALE quantities referencing this product. Manual recounts set it to an
// absolute value via the reconciliation engine.
type Product struct {
	ID            string `gorm:"primaryKey"` // "p-" + uuid
	Name          string `gorm:"index;not null"`
	SKU           string
	StockCount    int             `gorm:"not null;default:0"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	VATRate       decimal.Decimal `gorm:"type:decimal(4,2);not null"`
	Category      string          `gorm:"not null;default:'General'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
