package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a counterparty account (customer or supplier — the ledger does
// not distinguish; the sign of the balance does).
//
// Balance invariant: equals the signed sum of all transactions referencing
// this customer (SALE adds, PAYMENT and PURCHASE subtract). Only the
// reconciliation engine produces new balance values.
type Customer struct {
	ID        string `gorm:"primaryKey"` // "c-" + uuid
	Name      string `gorm:"index;not null"`
	TaxNumber string
	TaxOffice string
	Phone     string
	Address   string
	Email     string
	Balance   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
