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

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	dispatcher   *worker.Dispatcher
}

func NewProductService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	txRepo repository.TransactionRepository,
	dispatcher *worker.Dispatcher,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txRepo:       txRepo,
		dispatcher:   dispatcher,
	}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := model.Product{
		ID:         ledger.NewProductID(),
		Name:       req.Name,
		SKU:        req.SKU,
		StockCount: req.StockCount,
		UnitPrice:  req.UnitPrice.Round(2),
		Category:   req.Category,
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = req.PurchasePrice.Round(2)
	} else {
		product.PurchasePrice = req.UnitPrice.Mul(decimal.NewFromFloat(0.8)).Round(2)
	}
	if req.VATRate != nil {
		product.VATRate = *req.VATRate
	} else {
		product.VATRate = decimal.NewFromFloat(0.20)
	}
	if product.Category == "" {
		product.Category = "General"
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return nil, err
	}
	resp := productToResponse(&product)
	return &resp, nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.UnitPrice != nil {
		product.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = req.PurchasePrice.Round(2)
	}
	if req.VATRate != nil {
		product.VATRate = *req.VATRate
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

// Delete removes the product and its transactions, then rederives the balance
// of every customer those transactions touched so the books stay consistent.
func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return errors.New("product not found")
	}
	history, err := s.txRepo.ListByProduct(ctx, id)
	if err != nil {
		return err
	}

	affected := map[string]*model.Customer{}
	for _, tx := range history {
		if tx.CustomerID == "" {
			continue
		}
		if _, seen := affected[tx.CustomerID]; seen {
			continue
		}
		customer, err := s.customerRepo.FindByID(ctx, tx.CustomerID)
		if err != nil {
			continue // dangling reference, nothing to rebalance
		}
		remaining, err := s.txRepo.ListByCustomer(ctx, tx.CustomerID)
		if err != nil {
			return err
		}
		kept := make([]model.Transaction, 0, len(remaining))
		for _, r := range remaining {
			if r.ProductID != id {
				kept = append(kept, r)
			}
		}
		customer.Balance = ledger.RecomputeCustomerBalance(tx.CustomerID, kept)
		affected[tx.CustomerID] = customer
	}

	err = runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		if err := s.txRepo.DeleteByProductTx(tx, id); err != nil {
			return err
		}
		for _, customer := range affected {
			if err := s.customerRepo.UpsertTx(tx, customer); err != nil {
				return err
			}
		}
		return s.productRepo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	s.notifyLedgerChanged(ctx)
	return nil
}

// AdjustStock sets the count to an absolute value and writes an inert audit
// entry so the recount shows up in the log.
func (s *productService) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	previous := product.StockCount
	adjusted := ledger.ApplyStockAdjustment(*product, req.NewCount)
	log := ledger.StockAdjustmentLog(adjusted, previous, time.Now())

	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		if err := s.productRepo.UpsertTx(tx, &adjusted); err != nil {
			return err
		}
		return s.txRepo.CreateTx(tx, &log)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLedgerChanged(ctx)
	resp := productToResponse(&adjusted)
	return &resp, nil
}

func (s *productService) notifyLedgerChanged(ctx context.Context) {
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInsightRefresh(ctx)
	}
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		StockCount:    p.StockCount,
		UnitPrice:     p.UnitPrice,
		PurchasePrice: p.PurchasePrice,
		VATRate:       p.VATRate,
		Category:      p.Category,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
