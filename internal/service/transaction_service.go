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

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionService covers the manual ledger surface: form submissions,
// the transaction log, and edits/deletes with full recomputation of the
// owning customer balance and product stock.
type TransactionService interface {
	Create(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, id string) error
}

type transactionService struct {
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	dispatcher   *worker.Dispatcher
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) TransactionService {
	return &transactionService{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		dispatcher:   dispatcher,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *transactionService) Create(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	now := time.Now()

	var (
		record          model.Transaction
		updatedCustomer model.Customer
		updatedProduct  *model.Product
	)

	switch req.Type {
	case model.TxTypePayment:
		if req.Amount == nil || req.Amount.IsZero() {
			return nil, errors.New("payment amount is required")
		}
		res := ledger.ApplyPayment(*customer, *req.Amount, now)
		record, updatedCustomer = res.Transaction, res.Customer

	case model.TxTypeSale, model.TxTypePurchase:
		product, err := s.resolveProductForManualTx(ctx, req)
		if err != nil {
			return nil, err
		}
		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}
		price := product.UnitPrice
		if req.UnitPrice != nil && !req.UnitPrice.IsZero() {
			price = *req.UnitPrice
		}

		var res ledger.SaleResult
		if req.Type == model.TxTypeSale {
			res = ledger.ApplySale(*customer, *product, qty, price, now)
		} else {
			res = ledger.ApplyPurchase(*customer, *product, qty, price, now)
		}
		record, updatedCustomer = res.Transaction, res.Customer
		updatedProduct = &res.Product

	default:
		return nil, errors.New("unsupported transaction type")
	}

	record.Note = req.Note

	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		if err := s.customerRepo.UpsertTx(tx, &updatedCustomer); err != nil {
			return err
		}
		if updatedProduct != nil {
			if err := s.productRepo.UpsertTx(tx, updatedProduct); err != nil {
				return err
			}
		}
		return s.txRepo.CreateTx(tx, &record)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLedgerChanged(ctx)
	resp := transactionToResponse(&record)
	return &resp, nil
}

// resolveProductForManualTx looks up the product by id when given, otherwise
// resolves by name — creating on demand like the draft path does.
func (s *transactionService) resolveProductForManualTx(ctx context.Context, req dto.CreateTransactionRequest) (*model.Product, error) {
	if req.ProductID != "" {
		return s.productRepo.FindByID(ctx, req.ProductID)
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	price := decimal.Zero
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	product, _ := ledger.ResolveProduct(req.ProductName, price, products)
	return &product, nil
}

// ── List ─────────────────────────────────────────────────────────────────────

func (s *transactionService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txs, total, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, transactionToResponse(&txs[i]))
	}
	return &dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Update ───────────────────────────────────────────────────────────────────
// Editing never patches balances with a delta. The edited record replaces
// the stored one, then the customer balance and product stock are rederived
// from the full post-edit history.

func (s *transactionService) Update(ctx context.Context, id string, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	existing, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("transaction not found")
	}

	edited := *existing
	if req.Quantity != nil {
		edited.Quantity = *req.Quantity
	}
	if req.TotalAmount != nil {
		edited.TotalAmount = req.TotalAmount.Round(2)
	}
	if req.Note != nil {
		edited.Note = *req.Note
	}
	if req.Date != nil {
		parsed, perr := time.Parse(time.RFC3339, *req.Date)
		if perr != nil {
			return nil, errors.New("date must be RFC 3339")
		}
		edited.Date = parsed
	}

	updatedCustomer, updatedProduct, err := s.recomputeOwners(ctx, existing, &edited)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		if err := s.txRepo.UpsertTx(tx, &edited); err != nil {
			return err
		}
		if updatedCustomer != nil {
			if err := s.customerRepo.UpsertTx(tx, updatedCustomer); err != nil {
				return err
			}
		}
		if updatedProduct != nil {
			if err := s.productRepo.UpsertTx(tx, updatedProduct); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLedgerChanged(ctx)
	resp := transactionToResponse(&edited)
	return &resp, nil
}

// ── Delete ───────────────────────────────────────────────────────────────────
// Deletion reverses the entry's effect by recomputing from the remaining
// history (edited == nil means "gone").

func (s *transactionService) Delete(ctx context.Context, id string) error {
	existing, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return errors.New("transaction not found")
	}

	updatedCustomer, updatedProduct, err := s.recomputeOwners(ctx, existing, nil)
	if err != nil {
		return err
	}

	txErr := runTx(ctx, s.txRepo.DB(), func(tx *gorm.DB) error {
		if err := s.txRepo.DeleteTx(tx, id); err != nil {
			return err
		}
		if updatedCustomer != nil {
			if err := s.customerRepo.UpsertTx(tx, updatedCustomer); err != nil {
				return err
			}
		}
		if updatedProduct != nil {
			if err := s.productRepo.UpsertTx(tx, updatedProduct); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.notifyLedgerChanged(ctx)
	return nil
}

// recomputeOwners derives the next customer balance and product stock for an
// edit (edited != nil) or a delete (edited == nil) of existing. A dangling
// customer or product reference is tolerated as a no-op for that owner.
func (s *transactionService) recomputeOwners(ctx context.Context, existing, edited *model.Transaction) (*model.Customer, *model.Product, error) {
	var updatedCustomer *model.Customer
	if existing.CustomerID != "" {
		if customer, err := s.customerRepo.FindByID(ctx, existing.CustomerID); err == nil {
			history, err := s.txRepo.ListByCustomer(ctx, existing.CustomerID)
			if err != nil {
				return nil, nil, err
			}
			next := replaceTransaction(history, existing.ID, edited)
			customer.Balance = ledger.RecomputeCustomerBalance(existing.CustomerID, next)
			updatedCustomer = customer
		}
	}

	var updatedProduct *model.Product
	if existing.ProductID != "" {
		if product, err := s.productRepo.FindByID(ctx, existing.ProductID); err == nil {
			history, err := s.txRepo.ListByProduct(ctx, existing.ProductID)
			if err != nil {
				return nil, nil, err
			}
			base := ledger.TransactionBaseStock(existing.ProductID, product.StockCount, history)
			next := replaceTransaction(history, existing.ID, edited)
			product.StockCount = ledger.RecomputeProductStock(existing.ProductID, base, next)
			updatedProduct = product
		}
	}

	return updatedCustomer, updatedProduct, nil
}

// replaceTransaction swaps (or removes, when edited is nil) the entry with
// the given id.
func replaceTransaction(history []model.Transaction, id string, edited *model.Transaction) []model.Transaction {
	next := make([]model.Transaction, 0, len(history))
	for _, tx := range history {
		if tx.ID == id {
			if edited != nil {
				next = append(next, *edited)
			}
			continue
		}
		next = append(next, tx)
	}
	return next
}

func (s *transactionService) notifyLedgerChanged(ctx context.Context) {
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInsightRefresh(ctx)
	}
}

func transactionToResponse(t *model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		CustomerName:  t.CustomerName,
		ProductID:     t.ProductID,
		ProductName:   t.ProductName,
		Quantity:      t.Quantity,
		TotalAmount:   t.TotalAmount,
		VATAmount:     t.VATAmount,
		Date:          t.Date.Format(time.RFC3339),
		Type:          t.Type,
		PaymentStatus: t.PaymentStatus,
		Note:          t.Note,
	}
}
