package ledger

import (
	"ledgerai/internal/model"

	"github.com/shopspring/decimal"
)

// Editing or deleting a transaction never patches a balance incrementally —
// incremental deltas drift under repeated edits. The balance is rederived
// from the full remaining history, which is order-independent by
// construction.

// RecomputeCustomerBalance derives a customer's balance from scratch:
// SALE adds, PAYMENT and PURCHASE subtract, EXPENSE is inert.
func RecomputeCustomerBalance(customerID string, txs []model.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.CustomerID != customerID {
			continue
		}
		switch tx.Type {
		case model.TxTypeSale:
			balance = balance.Add(tx.TotalAmount)
		case model.TxTypePayment, model.TxTypePurchase:
			balance = balance.Sub(tx.TotalAmount)
		}
	}
	return balance
}

// RecomputeProductStock derives a product's stock count from a base count
// plus the full transaction history: SALE subtracts, PURCHASE adds.
func RecomputeProductStock(productID string, baseStock int, txs []model.Transaction) int {
	stock := baseStock
	for _, tx := range txs {
		if tx.ProductID != productID {
			continue
		}
		switch tx.Type {
		case model.TxTypeSale:
			stock -= tx.Quantity
		case model.TxTypePurchase:
			stock += tx.Quantity
		}
	}
	return stock
}

// TransactionBaseStock reverses the effect of the given history from the
// current count, recovering the base that RecomputeProductStock starts from.
// Used when a transaction is edited or deleted: base stays fixed while the
// history changes under it.
func TransactionBaseStock(productID string, currentStock int, txs []model.Transaction) int {
	base := currentStock
	for _, tx := range txs {
		if tx.ProductID != productID {
			continue
		}
		switch tx.Type {
		case model.TxTypeSale:
			base += tx.Quantity
		case model.TxTypePurchase:
			base -= tx.Quantity
		}
	}
	return base
}
