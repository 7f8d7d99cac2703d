package dto

import "github.com/shopspring/decimal"

// DashboardInsight is one derived metric card. Values are recomputed from
// the ledger by the insight worker after every mutation and cached in Redis.
type DashboardInsight struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Type        string `json:"type"` // positive | negative | neutral | info
}

type DashboardResponse struct {
	TotalReceivables decimal.Decimal    `json:"total_receivables"`
	TotalPayables    decimal.Decimal    `json:"total_payables"`
	MonthlySales     decimal.Decimal    `json:"monthly_sales"`
	PendingCount     int                `json:"pending_count"`
	LowStockCount    int                `json:"low_stock_count"`
	Insights         []DashboardInsight `json:"insights"`
	GeneratedAt      string             `json:"generated_at"`
}
