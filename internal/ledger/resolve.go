package ledger

import (
	"strings"

	"ledgerai/internal/model"

	"github.com/shopspring/decimal"
)

// Entity resolution maps a free-text name from a draft onto an existing
// record, or synthesizes a new one. It never fails: an unmatchable name
// produces a usable placeholder so the engine can proceed deterministically.
//
// Matching policy: case-insensitive exact match first, then case-insensitive
// substring fallback. Substring only runs when no exact match exists, which
// keeps "Acme" from shadowing an exact "Acme" record with "Acme Holdings".

// purchaseMarkup is the assumed cost ratio when synthesizing a product from
// a draft that only carries a sale price.
var purchaseMarkup = decimal.NewFromFloat(0.8)

// defaultVATRate applied to synthesized products.
var defaultVATRate = decimal.NewFromFloat(0.20)

// ResolveCustomer finds the customer named by a draft or synthesizes a new
// one with zero balance. The second return reports whether the customer was
// created (callers must persist it).
func ResolveCustomer(name string, customers []model.Customer) (model.Customer, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = "Unknown Customer"
	}

	if c, ok := matchCustomer(trimmed, customers); ok {
		return c, false
	}

	return model.Customer{
		ID:      NewCustomerID(),
		Name:    trimmed,
		Balance: decimal.Zero,
	}, true
}

// FindCustomer is ResolveCustomer without the synthesis step, for operations
// that must no-op on an unknown counterparty (payments, updates, deletes).
func FindCustomer(name string, customers []model.Customer) (model.Customer, bool) {
	return matchCustomer(strings.TrimSpace(name), customers)
}

func matchCustomer(name string, customers []model.Customer) (model.Customer, bool) {
	lower := strings.ToLower(name)
	if lower == "" {
		return model.Customer{}, false
	}
	for _, c := range customers {
		if strings.ToLower(c.Name) == lower {
			return c, true
		}
	}
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			return c, true
		}
	}
	return model.Customer{}, false
}

// ResolveProduct finds the product named by a draft or synthesizes one.
// A known price seeds the unit price and an estimated purchase price;
// otherwise both stay zero.
func ResolveProduct(name string, price decimal.Decimal, products []model.Product) (model.Product, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = "General"
	}

	if p, ok := matchProduct(trimmed, products); ok {
		return p, false
	}

	return model.Product{
		ID:            NewProductID(),
		Name:          trimmed,
		SKU:           "AI",
		StockCount:    0,
		UnitPrice:     price,
		PurchasePrice: price.Mul(purchaseMarkup).Round(2),
		VATRate:       defaultVATRate,
		Category:      "General",
	}, true
}

// FindProduct is ResolveProduct without synthesis.
func FindProduct(name string, products []model.Product) (model.Product, bool) {
	return matchProduct(strings.TrimSpace(name), products)
}

func matchProduct(name string, products []model.Product) (model.Product, bool) {
	lower := strings.ToLower(name)
	if lower == "" {
		return model.Product{}, false
	}
	for _, p := range products {
		if strings.ToLower(p.Name) == lower {
			return p, true
		}
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) {
			return p, true
		}
	}
	return model.Product{}, false
}
