package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ledgerai/internal/dto"
	"ledgerai/internal/model"
	"ledgerai/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "cache:dashboard"
	dashboardCacheTTL = 10 * time.Minute
	lowStockThreshold = 5
)

// InsightService derives the dashboard aggregates from the ledger. Reads are
// served from Redis; the worker pool calls Refresh after every mutation so
// the cache stays warm.
type InsightService interface {
	Get(ctx context.Context) (*dto.DashboardResponse, error)
	Refresh(ctx context.Context) error
}

type insightService struct {
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	rdb          *redis.Client
}

func NewInsightService(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	rdb *redis.Client,
) InsightService {
	return &insightService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		txRepo:       txRepo,
		rdb:          rdb,
	}
}

func (s *insightService) Get(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var resp dto.DashboardResponse
			if uerr := json.Unmarshal([]byte(cached), &resp); uerr == nil {
				return &resp, nil
			}
		}
	}

	resp, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, resp)
	return resp, nil
}

func (s *insightService) Refresh(ctx context.Context) error {
	resp, err := s.compute(ctx)
	if err != nil {
		return err
	}
	s.store(ctx, resp)
	return nil
}

func (s *insightService) store(ctx context.Context, resp *dto.DashboardResponse) {
	if s.rdb == nil {
		return
	}
	encoded, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, dashboardCacheKey, encoded, dashboardCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("insight cache write failed")
	}
}

func (s *insightService) compute(ctx context.Context) (*dto.DashboardResponse, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthTxs, err := s.txRepo.ListSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	receivables, payables := decimal.Zero, decimal.Zero
	for _, c := range customers {
		if c.Balance.IsPositive() {
			receivables = receivables.Add(c.Balance)
		} else if c.Balance.IsNegative() {
			payables = payables.Add(c.Balance.Neg())
		}
	}

	monthlySales := decimal.Zero
	pendingCount := 0
	for _, t := range monthTxs {
		if t.Type == model.TxTypeSale {
			monthlySales = monthlySales.Add(t.TotalAmount)
		}
		if t.PaymentStatus == model.PaymentStatusPending {
			pendingCount++
		}
	}

	lowStock := 0
	for _, p := range products {
		if p.StockCount < lowStockThreshold {
			lowStock++
		}
	}

	resp := &dto.DashboardResponse{
		TotalReceivables: receivables,
		TotalPayables:    payables,
		MonthlySales:     monthlySales,
		PendingCount:     pendingCount,
		LowStockCount:    lowStock,
		Insights:         buildInsightCards(receivables, payables, monthlySales, pendingCount, lowStock),
		GeneratedAt:      now.Format(time.RFC3339),
	}
	return resp, nil
}

func buildInsightCards(receivables, payables, monthlySales decimal.Decimal, pending, lowStock int) []dto.DashboardInsight {
	cards := []dto.DashboardInsight{
		{
			ID:          "receivables",
			Title:       "Outstanding Receivables",
			Value:       receivables.StringFixed(2),
			Description: "Total owed to you across all accounts",
			Type:        insightTone(receivables.IsPositive(), "positive", "neutral"),
		},
		{
			ID:          "payables",
			Title:       "Outstanding Payables",
			Value:       payables.StringFixed(2),
			Description: "Total you owe to suppliers",
			Type:        insightTone(payables.IsPositive(), "negative", "neutral"),
		},
		{
			ID:          "monthly-sales",
			Title:       "Sales This Month",
			Value:       monthlySales.StringFixed(2),
			Description: "Sum of SALE entries since the first of the month",
			Type:        "info",
		},
		{
			ID:          "pending",
			Title:       "Pending Transactions",
			Value:       fmt.Sprintf("%d", pending),
			Description: "Entries this month still awaiting payment",
			Type:        insightTone(pending > 0, "negative", "positive"),
		},
	}
	if lowStock > 0 {
		cards = append(cards, dto.DashboardInsight{
			ID:          "low-stock",
			Title:       "Low Stock",
			Value:       fmt.Sprintf("%d", lowStock),
			Description: fmt.Sprintf("Products below %d units", lowStockThreshold),
			Type:        "negative",
		})
	}
	return cards
}

func insightTone(cond bool, whenTrue, whenFalse string) string {
	if cond {
		return whenTrue
	}
	return whenFalse
}
