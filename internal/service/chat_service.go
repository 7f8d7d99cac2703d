package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledgerai/internal/assistant"
	"ledgerai/internal/dto"
	"ledgerai/internal/ledger"
	"ledgerai/internal/model"
	"ledgerai/internal/repository"
	"ledgerai/internal/worker"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// fallbackReply is shown when the extractor fails or times out. The chat
// path never surfaces an error to the user — it degrades to plain chat.
const fallbackReply = "Sorry, something went wrong while processing that. Please try again."

// historyWindow is how many prior messages the extractor sees per turn.
const historyWindow = 10

// ChatService is the draft workflow controller: it turns extractor output
// into pending drafts and applies each draft to the ledger exactly once.
type ChatService interface {
	CreateSession(ctx context.Context, title string) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context) ([]dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.ChatSessionResponse, error)
	SendMessage(ctx context.Context, sessionID, content string) (*dto.ChatTurnResponse, error)
	// ConfirmDraft is idempotent: a missing message, a nil draft, or an
	// already-confirmed draft is a safe no-op, never a second mutation.
	ConfirmDraft(ctx context.Context, sessionID string, position int) (*dto.ConfirmResponse, error)
}

type chatService struct {
	chatRepo     repository.ChatRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	extractor    assistant.Extractor
	locker       *redislock.Client
	dispatcher   *worker.Dispatcher
	turnTimeout  time.Duration
}

func NewChatService(
	chatRepo repository.ChatRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	extractor assistant.Extractor,
	locker *redislock.Client,
	dispatcher *worker.Dispatcher,
	turnTimeout time.Duration,
) ChatService {
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	return &chatService{
		chatRepo:     chatRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		txRepo:       txRepo,
		extractor:    extractor,
		locker:       locker,
		dispatcher:   dispatcher,
		turnTimeout:  turnTimeout,
	}
}

// ── Sessions ─────────────────────────────────────────────────────────────────

func (s *chatService) CreateSession(ctx context.Context, title string) (*dto.ChatSessionResponse, error) {
	if title == "" {
		title = "New conversation"
	}
	session := &model.ChatSession{
		ID:         ledger.NewSessionID(),
		Title:      title,
		LastUpdate: time.Now(),
	}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	resp := sessionToResponse(session, false)
	return &resp, nil
}

func (s *chatService) ListSessions(ctx context.Context) ([]dto.ChatSessionResponse, error) {
	sessions, err := s.chatRepo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionToResponse(&sessions[i], false))
	}
	return out, nil
}

func (s *chatService) GetSession(ctx context.Context, id string) (*dto.ChatSessionResponse, error) {
	session, err := s.chatRepo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, errors.New("chat session not found")
	}
	resp := sessionToResponse(session, true)
	return &resp, nil
}

// ── SendMessage ──────────────────────────────────────────────────────────────
// One chat turn: append the user message, run the extractor against a ledger
// snapshot, and append the assistant reply — with a draft attached when the
// intent is actionable. CONFIRM_ACTION instead applies the latest pending
// draft in the session.

func (s *chatService) SendMessage(ctx context.Context, sessionID, content string) (*dto.ChatTurnResponse, error) {
	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("chat session not found")
	}

	userMsg := &model.ChatMessage{Role: "user", Content: content, Timestamp: time.Now()}
	if err := s.chatRepo.AppendMessage(ctx, sessionID, userMsg); err != nil {
		return nil, err
	}

	res := s.extract(ctx, content, session)

	var confirmed *dto.ConfirmResponse
	if res.Intent == model.IntentConfirmAction {
		confirmed = s.confirmLatestDraft(ctx, sessionID)
	}

	asstMsg := &model.ChatMessage{
		Role:      "assistant",
		Content:   res.Message,
		Timestamp: time.Now(),
	}
	if model.IsActionableIntent(res.Intent) {
		draft := res.Data
		draft.Intent = res.Intent
		asstMsg.Draft = &draft
	}
	if err := s.chatRepo.AppendMessage(ctx, sessionID, asstMsg); err != nil {
		return nil, err
	}

	return &dto.ChatTurnResponse{
		Message:   messageToResponse(asstMsg),
		HasDraft:  asstMsg.Draft != nil,
		Confirmed: confirmed,
	}, nil
}

// extract runs the intent extractor with a per-turn deadline. Any failure —
// network, timeout, unparsable payload — degrades to a GENERAL_CHAT apology.
func (s *chatService) extract(ctx context.Context, content string, session *model.ChatSession) *assistant.Result {
	snapshot := s.buildSnapshot(ctx)
	history := buildHistory(session.Messages, historyWindow)

	ectx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	res, err := s.extractor.Extract(ectx, content, snapshot, history)
	if err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("extractor failed, degrading to general chat")
		return &assistant.Result{
			Message: fallbackReply,
			Intent:  model.IntentGeneralChat,
			Data:    model.DraftPayload{Intent: model.IntentGeneralChat},
		}
	}
	return res
}

func (s *chatService) buildSnapshot(ctx context.Context) assistant.Snapshot {
	var snapshot assistant.Snapshot
	if customers, err := s.customerRepo.List(ctx); err == nil {
		for _, c := range customers {
			snapshot.Customers = append(snapshot.Customers, assistant.CustomerContext{
				Name:    c.Name,
				Balance: c.Balance.StringFixed(2),
			})
		}
	}
	if products, err := s.productRepo.List(ctx); err == nil {
		for _, p := range products {
			snapshot.Products = append(snapshot.Products, assistant.ProductContext{
				Name:  p.Name,
				Stock: p.StockCount,
			})
		}
	}
	return snapshot
}

func buildHistory(messages []model.ChatMessage, window int) []assistant.HistoryEntry {
	start := len(messages) - window
	if start < 0 {
		start = 0
	}
	entries := make([]assistant.HistoryEntry, 0, len(messages)-start)
	for _, m := range messages[start:] {
		entries = append(entries, assistant.HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return entries
}

// confirmLatestDraft locates the most recent unconfirmed draft in the
// session for a CONFIRM_ACTION turn.
func (s *chatService) confirmLatestDraft(ctx context.Context, sessionID string) *dto.ConfirmResponse {
	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return &dto.ConfirmResponse{Applied: false}
	}
	for i := len(session.Messages) - 1; i >= 0; i-- {
		m := session.Messages[i]
		if m.Draft != nil && !m.Confirmed {
			resp, err := s.ConfirmDraft(ctx, sessionID, m.Position)
			if err != nil {
				log.Error().Err(err).Str("session_id", sessionID).Int("position", m.Position).
					Msg("confirm via chat failed")
				return &dto.ConfirmResponse{Applied: false}
			}
			return resp
		}
	}
	return &dto.ConfirmResponse{Applied: false}
}

// ── ConfirmDraft ─────────────────────────────────────────────────────────────
// Two-phase apply: compute every next-state first (pure engine over current
// reads), then persist customer + product + transaction + confirmed flag in
// ONE database transaction. Either all writes land or none do.

func (s *chatService) ConfirmDraft(ctx context.Context, sessionID string, position int) (*dto.ConfirmResponse, error) {
	// Cross-process guard. The Confirmed check inside the transaction below
	// remains the source of truth; the lock only narrows the race window
	// when two confirms for the same draft arrive at once.
	if s.locker != nil {
		key := fmt.Sprintf("lock:confirm:%s:%d", sessionID, position)
		lock, err := s.locker.Obtain(ctx, key, 10*time.Second, nil)
		switch {
		case errors.Is(err, redislock.ErrNotObtained):
			return &dto.ConfirmResponse{Applied: false}, nil
		case err == nil:
			defer func() { _ = lock.Release(context.Background()) }()
		}
	}

	session, err := s.chatRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("chat session not found")
	}

	var msg *model.ChatMessage
	for i := range session.Messages {
		if session.Messages[i].Position == position {
			msg = &session.Messages[i]
			break
		}
	}
	// Idempotence precondition: anything short of a pending draft is a no-op.
	if msg == nil || msg.Draft == nil || msg.Confirmed {
		resp := &dto.ConfirmResponse{Applied: false}
		if msg != nil {
			resp.AlreadyConfirmed = msg.Confirmed
		}
		return resp, nil
	}

	outcome, err := s.applyDraft(ctx, *msg.Draft)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txErr := runTx(ctx, s.chatRepo.DB(), func(tx *gorm.DB) error {
		for i := range outcome.customers {
			if err := s.customerRepo.UpsertTx(tx, &outcome.customers[i]); err != nil {
				return err
			}
		}
		for i := range outcome.products {
			if err := s.productRepo.UpsertTx(tx, &outcome.products[i]); err != nil {
				return err
			}
		}
		for i := range outcome.transactions {
			if err := s.txRepo.CreateTx(tx, &outcome.transactions[i]); err != nil {
				return err
			}
		}
		if outcome.deleteCustomerID != "" {
			if err := s.txRepo.DeleteByCustomerTx(tx, outcome.deleteCustomerID); err != nil {
				return err
			}
			if err := s.customerRepo.DeleteTx(tx, outcome.deleteCustomerID); err != nil {
				return err
			}
		}
		if err := s.chatRepo.MarkConfirmedTx(tx, sessionID, position); err != nil {
			return err
		}
		return s.chatRepo.TouchSessionTx(tx, sessionID, now)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueInsightRefresh(ctx)
	}

	return &dto.ConfirmResponse{
		Applied:       true,
		Intent:        msg.Draft.Intent,
		TransactionID: outcome.transactionID,
	}, nil
}

// draftOutcome is the computed next-state slice for one draft. Persisting it
// is the confirm transaction's job.
type draftOutcome struct {
	customers        []model.Customer
	products         []model.Product
	transactions     []model.Transaction
	deleteCustomerID string
	transactionID    string
}

// applyDraft dispatches a draft to the reconciliation engine. Reads current
// state, sanitizes numeric fields, resolves entities, writes nothing.
// Unknown counterparties for payments/updates/deletes make the draft a
// no-op rather than an error — the assistant never invents a collection
// target.
func (s *chatService) applyDraft(ctx context.Context, d model.DraftPayload) (*draftOutcome, error) {
	now := time.Now()

	switch d.Intent {
	case model.IntentSaleRecord, model.IntentPurchaseRecord:
		customers, _ := s.customerRepo.List(ctx)
		products, _ := s.productRepo.List(ctx)
		customer, _ := ledger.ResolveCustomer(d.CustomerName, customers)
		price := ledger.SanitizeAmount(d.Price)
		product, _ := ledger.ResolveProduct(d.ProductName, price, products)
		qty := ledger.SanitizeQuantity(d.Quantity)
		if qty <= 0 {
			qty = 1
		}

		var res ledger.SaleResult
		if d.Intent == model.IntentSaleRecord {
			res = ledger.ApplySale(customer, product, qty, price, now)
		} else {
			res = ledger.ApplyPurchase(customer, product, qty, price, now)
		}
		return &draftOutcome{
			customers:     []model.Customer{res.Customer},
			products:      []model.Product{res.Product},
			transactions:  []model.Transaction{res.Transaction},
			transactionID: res.Transaction.ID,
		}, nil

	case model.IntentCollectionRecord:
		customers, _ := s.customerRepo.List(ctx)
		customer, ok := ledger.FindCustomer(d.CustomerName, customers)
		if !ok {
			return &draftOutcome{}, nil
		}
		amount := ledger.SanitizeAmount(d.Amount)
		if amount.IsZero() {
			amount = ledger.SanitizeAmount(d.Price)
		}
		res := ledger.ApplyPayment(customer, amount, now)
		return &draftOutcome{
			customers:     []model.Customer{res.Customer},
			transactions:  []model.Transaction{res.Transaction},
			transactionID: res.Transaction.ID,
		}, nil

	case model.IntentCustomerAdd:
		customers, _ := s.customerRepo.List(ctx)
		customer, created := ledger.ResolveCustomer(d.CustomerName, customers)
		if !created {
			return &draftOutcome{}, nil // already on the books
		}
		customer.Phone = d.Phone
		customer.Address = d.Address
		return &draftOutcome{customers: []model.Customer{customer}}, nil

	case model.IntentCustomerUpdate:
		customers, _ := s.customerRepo.List(ctx)
		customer, ok := ledger.FindCustomer(d.CustomerName, customers)
		if !ok {
			return &draftOutcome{}, nil
		}
		if d.Phone != "" {
			customer.Phone = d.Phone
		}
		if d.Address != "" {
			customer.Address = d.Address
		}
		return &draftOutcome{customers: []model.Customer{customer}}, nil

	case model.IntentCustomerDelete:
		customers, _ := s.customerRepo.List(ctx)
		customer, ok := ledger.FindCustomer(d.CustomerName, customers)
		if !ok {
			return &draftOutcome{}, nil
		}
		return &draftOutcome{deleteCustomerID: customer.ID}, nil

	case model.IntentProductAdd:
		products, _ := s.productRepo.List(ctx)
		price := ledger.SanitizeAmount(d.Price)
		product, created := ledger.ResolveProduct(d.ProductName, price, products)
		if !created {
			return &draftOutcome{}, nil
		}
		if qty := ledger.SanitizeQuantity(d.Quantity); qty > 0 {
			product.StockCount = qty
		}
		if d.Category != "" {
			product.Category = d.Category
		}
		return &draftOutcome{products: []model.Product{product}}, nil

	case model.IntentProductUpdate:
		products, _ := s.productRepo.List(ctx)
		product, ok := ledger.FindProduct(d.ProductName, products)
		if !ok {
			return &draftOutcome{}, nil
		}
		if price := ledger.SanitizeAmount(d.Price); !price.IsZero() {
			product.UnitPrice = price
		}
		if d.Category != "" {
			product.Category = d.Category
		}
		return &draftOutcome{products: []model.Product{product}}, nil

	case model.IntentStockAdjust:
		products, _ := s.productRepo.List(ctx)
		product, ok := ledger.FindProduct(d.ProductName, products)
		if !ok {
			return &draftOutcome{}, nil
		}
		newCount := ledger.SanitizeQuantity(d.NewStock)
		if newCount == 0 && d.NewStock == "" {
			newCount = ledger.SanitizeQuantity(d.Quantity)
		}
		previous := product.StockCount
		updated := ledger.ApplyStockAdjustment(product, newCount)
		logTx := ledger.StockAdjustmentLog(updated, previous, now)
		return &draftOutcome{
			products:      []model.Product{updated},
			transactions:  []model.Transaction{logTx},
			transactionID: logTx.ID,
		}, nil
	}

	return nil, fmt.Errorf("unsupported draft intent %q", d.Intent)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func sessionToResponse(s *model.ChatSession, withMessages bool) dto.ChatSessionResponse {
	resp := dto.ChatSessionResponse{
		ID:         s.ID,
		Title:      s.Title,
		LastUpdate: s.LastUpdate.Format(time.RFC3339),
	}
	if withMessages {
		resp.Messages = make([]dto.ChatMessageResponse, 0, len(s.Messages))
		for i := range s.Messages {
			resp.Messages = append(resp.Messages, messageToResponse(&s.Messages[i]))
		}
	}
	return resp
}

func messageToResponse(m *model.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Position:  m.Position,
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.Timestamp.Format(time.RFC3339),
		Draft:     m.Draft,
		Confirmed: m.Confirmed,
	}
}
