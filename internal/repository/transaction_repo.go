package repository

import (
	"context"
	"time"

	"ledgerai/internal/dto"
	"ledgerai/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository defines the data access contract for the ledger log.
type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Transaction, error)
	ListByProduct(ctx context.Context, productID string) ([]model.Transaction, error)
	ListSince(ctx context.Context, since time.Time) ([]model.Transaction, error)

	CreateTx(tx *gorm.DB, t *model.Transaction) error
	UpsertTx(tx *gorm.DB, t *model.Transaction) error
	DeleteTx(tx *gorm.DB, id string) error
	// Cascading deletes used when a customer or product is removed.
	DeleteByCustomerTx(tx *gorm.DB, customerID string) error
	DeleteByProductTx(tx *gorm.DB, productID string) error

	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if filter.Type != "" && filter.Type != "ALL" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("date DESC").Limit(filter.Limit).Offset(offset).Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepo) ListByCustomer(ctx context.Context, customerID string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("date DESC").Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) ListByProduct(ctx context.Context, productID string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("date DESC").Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) ListSince(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Where("date >= ?", since).Order("date DESC").Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) UpsertTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Save(t).Error
}

func (r *transactionRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepo) DeleteByCustomerTx(tx *gorm.DB, customerID string) error {
	return tx.Delete(&model.Transaction{}, "customer_id = ?", customerID).Error
}

func (r *transactionRepo) DeleteByProductTx(tx *gorm.DB, productID string) error {
	return tx.Delete(&model.Transaction{}, "product_id = ?", productID).Error
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }
