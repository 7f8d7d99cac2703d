// Package ledger is the reconciliation engine: pure functions that keep
// customer balances and product stock counts consistent with the transaction
// log. Inputs are current entity values; outputs are next-state copies plus
// the transaction to persist. The package touches no storage and holds no
// state — callers decide what to write and when.
package ledger

import (
	"time"

	"ledgerai/internal/model"

	"github.com/shopspring/decimal"
)

// SaleResult carries the three records a sale or purchase produces.
type SaleResult struct {
	Transaction model.Transaction
	Customer    model.Customer
	Product     model.Product
}

// PaymentResult carries the two records a collection produces.
type PaymentResult struct {
	Transaction model.Transaction
	Customer    model.Customer
}

// ApplySale records qty units sold to the customer at unitPrice.
// Total is VAT-exclusive (qty × price); the VAT amount is computed from the
// product's rate and stored on the transaction for reporting only.
// The customer owes more, the shelf holds less.
func ApplySale(c model.Customer, p model.Product, qty int, unitPrice decimal.Decimal, now time.Time) SaleResult {
	total := unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)

	c.Balance = c.Balance.Add(total)
	p.StockCount -= qty

	return SaleResult{
		Transaction: model.Transaction{
			ID:            NewTransactionID(),
			CustomerID:    c.ID,
			CustomerName:  c.Name,
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      qty,
			TotalAmount:   total,
			VATAmount:     total.Mul(p.VATRate).Round(2),
			Date:          now,
			Type:          model.TxTypeSale,
			PaymentStatus: model.PaymentStatusPending,
		},
		Customer: c,
		Product:  p,
	}
}

// ApplyPurchase records qty units bought from the counterparty at unitPrice.
// The counterparty is owed less, the shelf holds more.
func ApplyPurchase(c model.Customer, p model.Product, qty int, unitPrice decimal.Decimal, now time.Time) SaleResult {
	total := unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)

	c.Balance = c.Balance.Sub(total)
	p.StockCount += qty

	return SaleResult{
		Transaction: model.Transaction{
			ID:            NewTransactionID(),
			CustomerID:    c.ID,
			CustomerName:  c.Name,
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      qty,
			TotalAmount:   total,
			VATAmount:     total.Mul(p.VATRate).Round(2),
			Date:          now,
			Type:          model.TxTypePurchase,
			PaymentStatus: model.PaymentStatusPending,
		},
		Customer: c,
		Product:  p,
	}
}

// ApplyPayment records a collection from the customer.
func ApplyPayment(c model.Customer, amount decimal.Decimal, now time.Time) PaymentResult {
	amount = amount.Round(2)
	c.Balance = c.Balance.Sub(amount)

	return PaymentResult{
		Transaction: model.Transaction{
			ID:            NewTransactionID(),
			CustomerID:    c.ID,
			CustomerName:  c.Name,
			TotalAmount:   amount,
			Date:          now,
			Type:          model.TxTypePayment,
			PaymentStatus: model.PaymentStatusPaid,
		},
		Customer: c,
	}
}

// ApplyStockAdjustment sets the stock count to an absolute value — a manual
// recount, not a delta.
func ApplyStockAdjustment(p model.Product, newCount int) model.Product {
	p.StockCount = newCount
	return p
}

// StockAdjustmentLog builds the optional audit transaction for a manual
// recount. EXPENSE entries are inert: they contribute nothing to balance or
// stock recomputation.
func StockAdjustmentLog(p model.Product, previousCount int, now time.Time) model.Transaction {
	return model.Transaction{
		ID:            NewTransactionID(),
		CustomerID:    "",
		CustomerName:  "-",
		ProductID:     p.ID,
		ProductName:   p.Name,
		Quantity:      p.StockCount - previousCount,
		TotalAmount:   decimal.Zero,
		Date:          now,
		Type:          model.TxTypeExpense,
		PaymentStatus: model.PaymentStatusPaid,
		Note:          "Manual stock entry",
	}
}
