package ledger

import (
	"testing"
	"time"

	"ledgerai/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplySale(t *testing.T) {
	customer := model.Customer{ID: "c-1", Name: "Global Logistics Ltd.", Balance: dec("45000")}
	product := model.Product{ID: "p-1", Name: "Tire", StockCount: 84, VATRate: dec("0.20")}

	res := ApplySale(customer, product, 2, dec("2450"), now)

	assert.True(t, res.Transaction.TotalAmount.Equal(dec("4900")))
	assert.True(t, res.Transaction.VATAmount.Equal(dec("980")))
	assert.Equal(t, model.TxTypeSale, res.Transaction.Type)
	assert.Equal(t, model.PaymentStatusPending, res.Transaction.PaymentStatus)
	assert.Equal(t, "c-1", res.Transaction.CustomerID)
	assert.True(t, res.Customer.Balance.Equal(dec("49900")))
	assert.Equal(t, 82, res.Product.StockCount)

	// inputs untouched — engine returns copies
	assert.True(t, customer.Balance.Equal(dec("45000")))
	assert.Equal(t, 84, product.StockCount)
}

func TestApplyPurchase(t *testing.T) {
	customer := model.Customer{ID: "c-1", Name: "Supplier Co", Balance: dec("1000")}
	product := model.Product{ID: "p-1", Name: "Oil", StockCount: 10, VATRate: dec("0.20")}

	res := ApplyPurchase(customer, product, 5, dec("600"), now)

	assert.True(t, res.Transaction.TotalAmount.Equal(dec("3000")))
	assert.Equal(t, model.TxTypePurchase, res.Transaction.Type)
	assert.True(t, res.Customer.Balance.Equal(dec("-2000")))
	assert.Equal(t, 15, res.Product.StockCount)
}

func TestApplyPayment(t *testing.T) {
	customer := model.Customer{ID: "c-1", Name: "Acme", Balance: dec("500")}

	res := ApplyPayment(customer, dec("500"), now)

	assert.Equal(t, model.TxTypePayment, res.Transaction.Type)
	assert.Equal(t, model.PaymentStatusPaid, res.Transaction.PaymentStatus)
	assert.True(t, res.Customer.Balance.IsZero())
}

func TestApplyStockAdjustment(t *testing.T) {
	product := model.Product{ID: "p-1", Name: "Tire", StockCount: 84}

	updated := ApplyStockAdjustment(product, 90)
	assert.Equal(t, 90, updated.StockCount)

	logTx := StockAdjustmentLog(updated, product.StockCount, now)
	assert.Equal(t, model.TxTypeExpense, logTx.Type)
	assert.Equal(t, 6, logTx.Quantity)
	assert.Equal(t, "Manual stock entry", logTx.Note)
	assert.True(t, logTx.TotalAmount.IsZero())
}

func TestRecomputeCustomerBalance(t *testing.T) {
	txs := []model.Transaction{
		{CustomerID: "c-1", Type: model.TxTypeSale, TotalAmount: dec("500")},
		{CustomerID: "c-1", Type: model.TxTypePayment, TotalAmount: dec("200")},
		{CustomerID: "c-1", Type: model.TxTypePurchase, TotalAmount: dec("100")},
		{CustomerID: "c-2", Type: model.TxTypeSale, TotalAmount: dec("9999")}, // other customer
		{CustomerID: "c-1", Type: model.TxTypeExpense, TotalAmount: dec("50")}, // inert
	}

	got := RecomputeCustomerBalance("c-1", txs)
	assert.True(t, got.Equal(dec("200")), "got %s", got)
}

func TestRecomputeCustomerBalanceOrderIndependent(t *testing.T) {
	txs := []model.Transaction{
		{CustomerID: "c-1", Type: model.TxTypeSale, TotalAmount: dec("500")},
		{CustomerID: "c-1", Type: model.TxTypePayment, TotalAmount: dec("300")},
		{CustomerID: "c-1", Type: model.TxTypeSale, TotalAmount: dec("120.50")},
	}
	reversed := []model.Transaction{txs[2], txs[1], txs[0]}

	assert.True(t, RecomputeCustomerBalance("c-1", txs).Equal(RecomputeCustomerBalance("c-1", reversed)))
}

func TestRecomputeProductStock(t *testing.T) {
	txs := []model.Transaction{
		{ProductID: "p-1", Type: model.TxTypeSale, Quantity: 30},
		{ProductID: "p-1", Type: model.TxTypeSale, Quantity: 20},
		{ProductID: "p-1", Type: model.TxTypePurchase, Quantity: 10},
	}

	assert.Equal(t, 60, RecomputeProductStock("p-1", 100, txs))
}

func TestDeleteReversesSaleEffect(t *testing.T) {
	customer := model.Customer{ID: "c-1", Name: "Acme", Balance: decimal.Zero}
	product := model.Product{ID: "p-1", Name: "Tire", StockCount: 10}

	res := ApplySale(customer, product, 1, dec("500"), now)
	history := []model.Transaction{res.Transaction}

	// Delete the sale: recompute over the remaining (empty) history.
	var remaining []model.Transaction
	assert.True(t, RecomputeCustomerBalance("c-1", remaining).IsZero())

	base := TransactionBaseStock("p-1", res.Product.StockCount, history)
	assert.Equal(t, 10, RecomputeProductStock("p-1", base, remaining))
}
