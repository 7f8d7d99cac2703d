package repository

import (
	"context"

	"ledgerai/internal/model"

	"gorm.io/gorm"
)

// CustomerRepository defines the data access contract for customers.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id string) error

	// Tx variants run inside a caller-owned transaction. A nil tx is the
	// unit-test mode: stubs apply the write directly.
	UpsertTx(tx *gorm.DB, c *model.Customer) error
	DeleteTx(tx *gorm.DB, id string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

// List returns customers most-recent-first, matching the "prepend on create"
// ordering the draft workflow expects.
func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error
}

func (r *customerRepo) UpsertTx(tx *gorm.DB, c *model.Customer) error {
	return tx.Save(c).Error
}

func (r *customerRepo) DeleteTx(tx *gorm.DB, id string) error {
	return tx.Delete(&model.Customer{}, "id = ?", id).Error
}

func (r *customerRepo) DB() *gorm.DB { return r.db }
