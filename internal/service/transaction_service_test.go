package service_test

import (
	"context"
	"testing"
	"time"

	"ledgerai/internal/dto"
	"ledgerai/internal/ledger"
	"ledgerai/internal/model"
	"ledgerai/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txFixture struct {
	svc          service.TransactionService
	customerRepo *stubCustomerRepo
	productRepo  *stubProductRepo
	txRepo       *stubTransactionRepo
}

func buildTxSvc(t *testing.T) *txFixture {
	t.Helper()
	f := &txFixture{
		customerRepo: newStubCustomerRepo(),
		productRepo:  newStubProductRepo(),
		txRepo:       newStubTransactionRepo(),
	}
	f.svc = service.NewTransactionService(f.txRepo, f.customerRepo, f.productRepo, nil)
	return f
}

func (f *txFixture) seedCustomer(name string, balance int64) model.Customer {
	c := model.Customer{ID: ledger.NewCustomerID(), Name: name, Balance: decimal.NewFromInt(balance)}
	_ = f.customerRepo.Create(context.Background(), &c)
	return c
}

func (f *txFixture) seedProduct(name string, price int64, stock int) model.Product {
	p := model.Product{
		ID:         ledger.NewProductID(),
		Name:       name,
		StockCount: stock,
		UnitPrice:  decimal.NewFromInt(price),
		VATRate:    decimal.NewFromFloat(0.20),
	}
	_ = f.productRepo.Create(context.Background(), &p)
	return p
}

func TestCreateTransaction_Sale(t *testing.T) {
	f := buildTxSvc(t)
	customer := f.seedCustomer("Global Logistics Ltd.", 45000)
	product := f.seedProduct("High Performance Tire", 2450, 84)

	resp, err := f.svc.Create(context.Background(), dto.CreateTransactionRequest{
		Type:       model.TxTypeSale,
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, "4900", resp.TotalAmount.String())
	assert.Equal(t, "980", resp.VATAmount.String())
	assert.Equal(t, model.PaymentStatusPending, resp.PaymentStatus)

	updated, _ := f.customerRepo.FindByID(context.Background(), customer.ID)
	assert.Equal(t, "49900", updated.Balance.String())
	stock, _ := f.productRepo.FindByID(context.Background(), product.ID)
	assert.Equal(t, 82, stock.StockCount)
}

func TestCreateTransaction_Payment(t *testing.T) {
	f := buildTxSvc(t)
	customer := f.seedCustomer("Acme", 1000)
	amount := decimal.NewFromInt(600)

	resp, err := f.svc.Create(context.Background(), dto.CreateTransactionRequest{
		Type:       model.TxTypePayment,
		CustomerID: customer.ID,
		Amount:     &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, resp.PaymentStatus)

	updated, _ := f.customerRepo.FindByID(context.Background(), customer.ID)
	assert.Equal(t, "400", updated.Balance.String())
}

func TestCreateTransaction_UnknownCustomer(t *testing.T) {
	f := buildTxSvc(t)
	amount := decimal.NewFromInt(100)
	_, err := f.svc.Create(context.Background(), dto.CreateTransactionRequest{
		Type:       model.TxTypePayment,
		CustomerID: "c-missing",
		Amount:     &amount,
	})
	assert.ErrorContains(t, err, "customer not found")
}

func TestDeleteTransaction_ReversesEffects(t *testing.T) {
	f := buildTxSvc(t)
	customer := f.seedCustomer("Acme", 0)
	product := f.seedProduct("Widget", 2450, 84)

	resp, err := f.svc.Create(context.Background(), dto.CreateTransactionRequest{
		Type:       model.TxTypeSale,
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Quantity:   2,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), resp.ID))

	updated, _ := f.customerRepo.FindByID(context.Background(), customer.ID)
	assert.True(t, updated.Balance.IsZero(), "balance returns to pre-sale value")
	stock, _ := f.productRepo.FindByID(context.Background(), product.ID)
	assert.Equal(t, 84, stock.StockCount)
	assert.Empty(t, f.txRepo.txs)
}

func TestUpdateTransaction_RecomputesFromHistory(t *testing.T) {
	f := buildTxSvc(t)
	customer := f.seedCustomer("Acme", 0)
	product := f.seedProduct("Widget", 2450, 84)

	resp, err := f.svc.Create(context.Background(), dto.CreateTransactionRequest{
		Type:       model.TxTypeSale,
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Quantity:   2,
	})
	require.NoError(t, err)

	qty := 1
	total := decimal.NewFromInt(2450)
	_, err = f.svc.Update(context.Background(), resp.ID, dto.UpdateTransactionRequest{
		Quantity:    &qty,
		TotalAmount: &total,
	})
	require.NoError(t, err)

	updated, _ := f.customerRepo.FindByID(context.Background(), customer.ID)
	assert.Equal(t, "2450", updated.Balance.String())
	stock, _ := f.productRepo.FindByID(context.Background(), product.ID)
	assert.Equal(t, 83, stock.StockCount, "half the quantity leaves one more on the shelf")
}

func TestDeleteTransaction_ExpenseEntriesStayInert(t *testing.T) {
	f := buildTxSvc(t)
	customer := f.seedCustomer("Acme", 100)
	expense := model.Transaction{
		ID:           ledger.NewTransactionID(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Type:         model.TxTypeExpense,
		TotalAmount:  decimal.NewFromInt(999),
		Date:         time.Now(),
	}
	require.NoError(t, f.txRepo.Create(context.Background(), &expense))
	sale := model.Transaction{
		ID:           ledger.NewTransactionID(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Type:         model.TxTypeSale,
		TotalAmount:  decimal.NewFromInt(100),
		Date:         time.Now(),
	}
	require.NoError(t, f.txRepo.Create(context.Background(), &sale))

	// Deleting the expense recomputes the balance from SALE entries alone.
	require.NoError(t, f.svc.Delete(context.Background(), expense.ID))

	updated, _ := f.customerRepo.FindByID(context.Background(), customer.ID)
	assert.Equal(t, "100", updated.Balance.String())
}

func TestListTransactions_FilterByType(t *testing.T) {
	f := buildTxSvc(t)
	customer := f.seedCustomer("Acme", 0)
	amount := decimal.NewFromInt(50)
	_, err := f.svc.Create(context.Background(), dto.CreateTransactionRequest{
		Type:       model.TxTypePayment,
		CustomerID: customer.ID,
		Amount:     &amount,
	})
	require.NoError(t, err)

	resp, err := f.svc.List(context.Background(), dto.TransactionFilter{Type: model.TxTypePayment, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)

	resp, err = f.svc.List(context.Background(), dto.TransactionFilter{Type: model.TxTypeSale, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, resp.Total)
}
