package service

import (
	"context"
	"time"

	"ledgerai/internal/ledger"
	"ledgerai/internal/model"
	"ledgerai/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeedIfEmpty loads the demo dataset on first boot so the app opens with a
// populated ledger. It is a no-op whenever any customer already exists.
func SeedIfEmpty(
	ctx context.Context,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	profileRepo repository.ProfileRepository,
	chatRepo repository.ChatRepository,
) error {
	existing, err := customerRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()

	profile := model.BusinessProfile{
		Name:      "Demo Trading Co.",
		Sector:    "Wholesale & Distribution",
		OwnerName: "Alex Demir",
		Currency:  "$",
	}
	if err := profileRepo.Save(ctx, &profile); err != nil {
		return err
	}

	globalLogistics := model.Customer{
		ID:      ledger.NewCustomerID(),
		Name:    "Global Logistics Ltd.",
		Phone:   "+1 555 0101",
		Balance: decimal.NewFromInt(45000),
	}
	localMarket := model.Customer{
		ID:      ledger.NewCustomerID(),
		Name:    "Local Market",
		Phone:   "+1 555 0102",
		Balance: decimal.NewFromInt(-5200),
	}
	for _, c := range []*model.Customer{&globalLogistics, &localMarket} {
		if err := customerRepo.Create(ctx, c); err != nil {
			return err
		}
	}

	tire := model.Product{
		ID:            ledger.NewProductID(),
		Name:          "High Performance Tire",
		SKU:           "TIRE-225",
		StockCount:    84,
		UnitPrice:     decimal.NewFromInt(2450),
		PurchasePrice: decimal.NewFromInt(1800),
		VATRate:       decimal.NewFromFloat(0.20),
		Category:      "Automotive",
	}
	oil := model.Product{
		ID:            ledger.NewProductID(),
		Name:          "Industrial Oil",
		SKU:           "OIL-20L",
		StockCount:    120,
		UnitPrice:     decimal.NewFromInt(850),
		PurchasePrice: decimal.NewFromInt(600),
		VATRate:       decimal.NewFromFloat(0.20),
		Category:      "Lubricants",
	}
	for _, p := range []*model.Product{&tire, &oil} {
		if err := productRepo.Create(ctx, p); err != nil {
			return err
		}
	}

	// One historical sale, consistent with Global Logistics' balance:
	// 2 tires at 2450 = 4900 total, 980 VAT at 20%.
	sale := model.Transaction{
		ID:            ledger.NewTransactionID(),
		CustomerID:    globalLogistics.ID,
		CustomerName:  globalLogistics.Name,
		ProductID:     tire.ID,
		ProductName:   tire.Name,
		Quantity:      2,
		TotalAmount:   decimal.NewFromInt(4900),
		VATAmount:     decimal.NewFromInt(980),
		Date:          now.AddDate(0, 0, -3),
		Type:          model.TxTypeSale,
		PaymentStatus: model.PaymentStatusPending,
	}
	if err := txRepo.Create(ctx, &sale); err != nil {
		return err
	}

	welcome := model.ChatSession{
		ID:         ledger.NewSessionID(),
		Title:      "Welcome",
		LastUpdate: now,
	}
	if err := chatRepo.CreateSession(ctx, &welcome); err != nil {
		return err
	}
	greeting := model.ChatMessage{
		Role:      "assistant",
		Content:   "Hi! Tell me about a sale, a purchase or a payment and I'll draft the ledger entry for you to confirm.",
		Timestamp: now,
	}
	if err := chatRepo.AppendMessage(ctx, welcome.ID, &greeting); err != nil {
		return err
	}

	log.Info().Msg("seeded demo dataset")
	return nil
}
