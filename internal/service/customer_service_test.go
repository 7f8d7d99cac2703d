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

func buildCustomerSvc(t *testing.T) (service.CustomerService, *stubCustomerRepo, *stubTransactionRepo) {
	t.Helper()
	customerRepo := newStubCustomerRepo()
	txRepo := newStubTransactionRepo()
	return service.NewCustomerService(customerRepo, txRepo, nil), customerRepo, txRepo
}

func TestCustomerCRUD(t *testing.T) {
	svc, _, _ := buildCustomerSvc(t)

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Acme Corp",
		Phone: "+1 555 0100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Balance.IsZero())

	newPhone := "+1 555 0199"
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateCustomerRequest{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, "Acme Corp", updated.Name)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(context.Background(), "c-missing")
	assert.ErrorContains(t, err, "not found")
}

func TestRecordPayment_ReducesBalance(t *testing.T) {
	svc, customerRepo, txRepo := buildCustomerSvc(t)
	customer := model.Customer{ID: ledger.NewCustomerID(), Name: "Acme", Balance: decimal.NewFromInt(1000)}
	require.NoError(t, customerRepo.Create(context.Background(), &customer))

	resp, err := svc.RecordPayment(context.Background(), customer.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(400),
		Note:   "bank transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, "600", resp.Balance.String())

	require.Len(t, txRepo.txs, 1)
	assert.Equal(t, model.TxTypePayment, txRepo.txs[0].Type)
	assert.Equal(t, model.PaymentStatusPaid, txRepo.txs[0].PaymentStatus)
	assert.Equal(t, "bank transfer", txRepo.txs[0].Note)
}

func TestDeleteCustomer_CascadesTransactions(t *testing.T) {
	svc, customerRepo, txRepo := buildCustomerSvc(t)
	customer := model.Customer{ID: ledger.NewCustomerID(), Name: "Acme", Balance: decimal.NewFromInt(500)}
	require.NoError(t, customerRepo.Create(context.Background(), &customer))
	other := model.Customer{ID: ledger.NewCustomerID(), Name: "Beta", Balance: decimal.Zero}
	require.NoError(t, customerRepo.Create(context.Background(), &other))

	for _, c := range []model.Customer{customer, other} {
		tx := model.Transaction{
			ID:         ledger.NewTransactionID(),
			CustomerID: c.ID,
			Type:       model.TxTypeSale,
			Date:       time.Now(),
		}
		require.NoError(t, txRepo.Create(context.Background(), &tx))
	}

	require.NoError(t, svc.Delete(context.Background(), customer.ID))

	list, _ := svc.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Beta", list[0].Name)

	// Only the other customer's history remains.
	require.Len(t, txRepo.txs, 1)
	assert.Equal(t, other.ID, txRepo.txs[0].CustomerID)
}

func TestStatement_ReturnsCustomerWithHistory(t *testing.T) {
	svc, customerRepo, txRepo := buildCustomerSvc(t)
	customer := model.Customer{ID: ledger.NewCustomerID(), Name: "Acme", Balance: decimal.NewFromInt(4900)}
	require.NoError(t, customerRepo.Create(context.Background(), &customer))
	tx := model.Transaction{
		ID:          ledger.NewTransactionID(),
		CustomerID:  customer.ID,
		Type:        model.TxTypeSale,
		TotalAmount: decimal.NewFromInt(4900),
		Date:        time.Now(),
	}
	require.NoError(t, txRepo.Create(context.Background(), &tx))

	stmt, err := svc.Statement(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stmt.Customer.Name)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, tx.ID, stmt.Transactions[0].ID)
}
