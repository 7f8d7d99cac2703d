package service

import (
	"context"
	"errors"
	"time"

	"ledgerai/internal/dto"
	"ledgerai/internal/ledger"
	"ledgerai/internal/model"
	"ledgerai/internal/repository"
	"ledgerai/internal/worker"

	"gorm.io/gorm"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Get(ctx context.Context, id string) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id string) error
	RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (*dto.CustomerResponse, error)
	Statement(ctx context.Context, id string) (*dto.CustomerStatementResponse, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	dispatcher   *worker.Dispatcher
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	txRepo repository.TransactionRepository,
	dispatcher *worker.Dispatcher,
) CustomerService {
	return &customerService{customerRepo: customerRepo, txRepo: txRepo, dispatcher: dispatcher}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := model.Customer{
		ID:        ledger.NewCustomerID(),
		Name:      req.Name,
		TaxNumber: req.TaxNumber,
		TaxOffice: req.TaxOffice,
		Phone:     req.Phone,
		Address:   req.Address,
		Email:     req.Email,
		Notes:     req.Notes,
	}
	if err := s.customerRepo.Create(ctx, &customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(&customer)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) Update(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.TaxNumber != nil {
		customer.TaxNumber = *req.TaxNumber
	}
	if req.TaxOffice != nil {
		customer.TaxOffice = *req.TaxOffice
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

// Delete removes the customer together with every transaction that references
// it, so the log never shows entries pointing at a missing account.
func (s *customerService) Delete(ctx context.Context, id string) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return errors.New("customer not found")
	}
	err := runTx(ctx, s.customerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.txRepo.DeleteByCustomerTx(tx, id); err != nil {
			return err
		}
		return s.customerRepo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}
	s.notifyLedgerChanged(ctx)
	return nil
}

// RecordPayment is the quick action on the customer card: one PAYMENT entry,
// balance reduced by the amount.
func (s *customerService) RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	res := ledger.ApplyPayment(*customer, req.Amount, time.Now())
	res.Transaction.Note = req.Note

	txErr := runTx(ctx, s.customerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.customerRepo.UpsertTx(tx, &res.Customer); err != nil {
			return err
		}
		return s.txRepo.CreateTx(tx, &res.Transaction)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLedgerChanged(ctx)
	resp := customerToResponse(&res.Customer)
	return &resp, nil
}

func (s *customerService) Statement(ctx context.Context, id string) (*dto.CustomerStatementResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	txs, err := s.txRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, transactionToResponse(&txs[i]))
	}
	return &dto.CustomerStatementResponse{
		Customer:     customerToResponse(customer),
		Transactions: items,
	}, nil
}

func (s *customerService) notifyLedgerChanged(ctx context.Context) {
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInsightRefresh(ctx)
	}
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxNumber: c.TaxNumber,
		TaxOffice: c.TaxOffice,
		Phone:     c.Phone,
		Address:   c.Address,
		Email:     c.Email,
		Balance:   c.Balance,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
