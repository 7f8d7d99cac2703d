package service_test

// In-memory repository stubs shared by the service tests. Tx-variant methods
// accept the nil *gorm.DB that runTx passes in unit-test mode and apply the
// write directly.

import (
	"context"
	"errors"
	"time"

	"ledgerai/internal/assistant"
	"ledgerai/internal/dto"
	"ledgerai/internal/model"
	"ledgerai/internal/repository"

	"gorm.io/gorm"
)

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[string]*model.Customer
	order     []string
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.order))
	for _, id := range r.order {
		if c, ok := r.customers[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	return r.UpsertTx(nil, c)
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) error { return r.DeleteTx(nil, id) }

func (r *stubCustomerRepo) UpsertTx(_ *gorm.DB, c *model.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[string]*model.Product
	order    []string
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	return r.UpsertTx(nil, p)
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error { return r.DeleteTx(nil, id) }

func (r *stubProductRepo) UpsertTx(_ *gorm.DB, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id string) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Transactions ─────────────────────────────────────────────────────────────

type stubTransactionRepo struct {
	txs []model.Transaction
}

func newStubTransactionRepo() *stubTransactionRepo { return &stubTransactionRepo{} }

func (r *stubTransactionRepo) Create(_ context.Context, t *model.Transaction) error {
	return r.CreateTx(nil, t)
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id string) (*model.Transaction, error) {
	for i := range r.txs {
		if r.txs[i].ID == id {
			cp := r.txs[i]
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubTransactionRepo) List(_ context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txs {
		if filter.Type != "" && filter.Type != "ALL" && t.Type != filter.Type {
			continue
		}
		if filter.CustomerID != "" && t.CustomerID != filter.CustomerID {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) ListByCustomer(_ context.Context, customerID string) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.txs {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) ListByProduct(_ context.Context, productID string) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.txs {
		if t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) ListSince(_ context.Context, since time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.txs {
		if !t.Date.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	r.txs = append(r.txs, *t)
	return nil
}

func (r *stubTransactionRepo) UpsertTx(_ *gorm.DB, t *model.Transaction) error {
	for i := range r.txs {
		if r.txs[i].ID == t.ID {
			r.txs[i] = *t
			return nil
		}
	}
	r.txs = append(r.txs, *t)
	return nil
}

func (r *stubTransactionRepo) DeleteTx(_ *gorm.DB, id string) error {
	r.txs = filterTxs(r.txs, func(t model.Transaction) bool { return t.ID != id })
	return nil
}

func (r *stubTransactionRepo) DeleteByCustomerTx(_ *gorm.DB, customerID string) error {
	r.txs = filterTxs(r.txs, func(t model.Transaction) bool { return t.CustomerID != customerID })
	return nil
}

func (r *stubTransactionRepo) DeleteByProductTx(_ *gorm.DB, productID string) error {
	r.txs = filterTxs(r.txs, func(t model.Transaction) bool { return t.ProductID != productID })
	return nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

func filterTxs(txs []model.Transaction, keep func(model.Transaction) bool) []model.Transaction {
	out := txs[:0]
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

// ── Chat ─────────────────────────────────────────────────────────────────────

type stubChatRepo struct {
	sessions map[string]*model.ChatSession
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{sessions: make(map[string]*model.ChatSession)}
}

func (r *stubChatRepo) CreateSession(_ context.Context, s *model.ChatSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *stubChatRepo) FindSessionByID(_ context.Context, id string) (*model.ChatSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *s
	cp.Messages = append([]model.ChatMessage(nil), s.Messages...)
	return &cp, nil
}

func (r *stubChatRepo) ListSessions(_ context.Context) ([]model.ChatSession, error) {
	out := make([]model.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubChatRepo) AppendMessage(_ context.Context, sessionID string, m *model.ChatMessage) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return errors.New("not found")
	}
	m.SessionID = sessionID
	m.Position = len(s.Messages)
	s.Messages = append(s.Messages, *m)
	s.LastUpdate = m.Timestamp
	return nil
}

func (r *stubChatRepo) MarkConfirmedTx(_ *gorm.DB, sessionID string, position int) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return errors.New("not found")
	}
	for i := range s.Messages {
		if s.Messages[i].Position == position {
			s.Messages[i].Confirmed = true
			return nil
		}
	}
	return errors.New("not found")
}

func (r *stubChatRepo) TouchSessionTx(_ *gorm.DB, sessionID string, at time.Time) error {
	if s, ok := r.sessions[sessionID]; ok {
		s.LastUpdate = at
	}
	return nil
}

func (r *stubChatRepo) DB() *gorm.DB { return nil }

var _ repository.ChatRepository = (*stubChatRepo)(nil)

// ── Extractor ────────────────────────────────────────────────────────────────

// stubExtractor returns a scripted result (or error) and records what it saw.
type stubExtractor struct {
	result   *assistant.Result
	err      error
	lastMsg  string
	lastSnap assistant.Snapshot
}

func (e *stubExtractor) Extract(_ context.Context, message string, snapshot assistant.Snapshot, _ []assistant.HistoryEntry) (*assistant.Result, error) {
	e.lastMsg = message
	e.lastSnap = snapshot
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

var _ assistant.Extractor = (*stubExtractor)(nil)
