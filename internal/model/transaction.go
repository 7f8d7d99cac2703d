package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. EXPENSE is recorded for bookkeeping only and contributes
// nothing to customer balances or product stock.
const (
	TxTypeSale     = "SALE"
	TxTypePurchase = "PURCHASE"
	TxTypePayment  = "PAYMENT"
	TxTypeExpense  = "EXPENSE"
)

// Payment statuses.
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPending = "PENDING"
)

// Transaction is one ledger entry. Identity is immutable once created;
// amounts and linkage may be edited or the record deleted, after which the
// owning customer balance / product stock must be recomputed from the full
// remaining history — never patched incrementally.
type Transaction struct {
	ID            string `gorm:"primaryKey"` // "t-" + uuid
	CustomerID    string `gorm:"index;not null"`
	CustomerName  string `gorm:"not null"`
	ProductID     string `gorm:"index"`
	ProductName   string
	Quantity      int
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(14,2)"`
	Date          time.Time       `gorm:"index;not null"`
	Type          string          `gorm:"index;not null"` // SALE | PURCHASE | PAYMENT | EXPENSE
	PaymentStatus string          `gorm:"not null"`       // PAID | PENDING
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
