package repository

import (
	"context"
	"time"

	"ledgerai/internal/model"

	"gorm.io/gorm"
)

// ChatRepository defines the data access contract for chat sessions.
// Message logs are append-only; the only in-place message mutation allowed
// is flipping the Confirmed flag, and that happens inside the confirm
// transaction.
type ChatRepository interface {
	CreateSession(ctx context.Context, s *model.ChatSession) error
	FindSessionByID(ctx context.Context, id string) (*model.ChatSession, error)
	ListSessions(ctx context.Context) ([]model.ChatSession, error)

	// AppendMessage assigns the next position in the session and bumps
	// LastUpdate atomically.
	AppendMessage(ctx context.Context, sessionID string, m *model.ChatMessage) error

	MarkConfirmedTx(tx *gorm.DB, sessionID string, position int) error
	TouchSessionTx(tx *gorm.DB, sessionID string, at time.Time) error

	DB() *gorm.DB
}

type chatRepo struct{ db *gorm.DB }

func NewChatRepository(db *gorm.DB) ChatRepository { return &chatRepo{db: db} }

func (r *chatRepo) CreateSession(ctx context.Context, s *model.ChatSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *chatRepo) FindSessionByID(ctx context.Context, id string) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *chatRepo) ListSessions(ctx context.Context) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.db.WithContext(ctx).Order("last_update DESC").Find(&sessions).Error
	return sessions, err
}

func (r *chatRepo) AppendMessage(ctx context.Context, sessionID string, m *model.ChatMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ChatMessage{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return err
		}
		m.SessionID = sessionID
		m.Position = int(count)
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatSession{}).Where("id = ?", sessionID).
			Update("last_update", m.Timestamp).Error
	})
}

func (r *chatRepo) MarkConfirmedTx(tx *gorm.DB, sessionID string, position int) error {
	return tx.Model(&model.ChatMessage{}).
		Where("session_id = ? AND position = ?", sessionID, position).
		Update("confirmed", true).Error
}

func (r *chatRepo) TouchSessionTx(tx *gorm.DB, sessionID string, at time.Time) error {
	return tx.Model(&model.ChatSession{}).Where("id = ?", sessionID).
		Update("last_update", at).Error
}

func (r *chatRepo) DB() *gorm.DB { return r.db }
