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

func buildProductSvc(t *testing.T) (service.ProductService, *stubCustomerRepo, *stubProductRepo, *stubTransactionRepo) {
	t.Helper()
	customerRepo := newStubCustomerRepo()
	productRepo := newStubProductRepo()
	txRepo := newStubTransactionRepo()
	svc := service.NewProductService(productRepo, customerRepo, txRepo, nil)
	return svc, customerRepo, productRepo, txRepo
}

func TestCreateProduct_Defaults(t *testing.T) {
	svc, _, _, _ := buildProductSvc(t)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:      "Widget",
		UnitPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "80", resp.PurchasePrice.String(), "purchase price defaults to 80% of sale price")
	assert.Equal(t, "0.2", resp.VATRate.String())
	assert.Equal(t, "General", resp.Category)
}

func TestAdjustStock_AbsoluteValueWithAuditEntry(t *testing.T) {
	svc, _, productRepo, txRepo := buildProductSvc(t)
	product := model.Product{
		ID:         ledger.NewProductID(),
		Name:       "Widget",
		StockCount: 10,
		UnitPrice:  decimal.NewFromInt(100),
	}
	require.NoError(t, productRepo.Create(context.Background(), &product))

	resp, err := svc.AdjustStock(context.Background(), product.ID, dto.AdjustStockRequest{NewCount: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.StockCount)

	require.Len(t, txRepo.txs, 1)
	audit := txRepo.txs[0]
	assert.Equal(t, model.TxTypeExpense, audit.Type)
	assert.Equal(t, 15, audit.Quantity)
	assert.Equal(t, "Manual stock entry", audit.Note)
	assert.True(t, audit.TotalAmount.IsZero())
}

func TestDeleteProduct_RebalancesAffectedCustomers(t *testing.T) {
	svc, customerRepo, productRepo, txRepo := buildProductSvc(t)
	product := model.Product{ID: ledger.NewProductID(), Name: "Widget", StockCount: 5, UnitPrice: decimal.NewFromInt(100)}
	require.NoError(t, productRepo.Create(context.Background(), &product))
	customer := model.Customer{ID: ledger.NewCustomerID(), Name: "Acme", Balance: decimal.NewFromInt(300)}
	require.NoError(t, customerRepo.Create(context.Background(), &customer))

	// 300 of the balance comes from widget sales, 100 from another sale.
	widgetSale := model.Transaction{
		ID: ledger.NewTransactionID(), CustomerID: customer.ID, ProductID: product.ID,
		Type: model.TxTypeSale, TotalAmount: decimal.NewFromInt(200), Date: time.Now(),
	}
	otherSale := model.Transaction{
		ID: ledger.NewTransactionID(), CustomerID: customer.ID,
		Type: model.TxTypeSale, TotalAmount: decimal.NewFromInt(100), Date: time.Now(),
	}
	require.NoError(t, txRepo.Create(context.Background(), &widgetSale))
	require.NoError(t, txRepo.Create(context.Background(), &otherSale))

	require.NoError(t, svc.Delete(context.Background(), product.ID))

	products, _ := productRepo.List(context.Background())
	assert.Empty(t, products)

	// Widget history is gone; the balance reflects what remains.
	require.Len(t, txRepo.txs, 1)
	assert.Equal(t, otherSale.ID, txRepo.txs[0].ID)
	updated, _ := customerRepo.FindByID(context.Background(), customer.ID)
	assert.Equal(t, "100", updated.Balance.String())
}
