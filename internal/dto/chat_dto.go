package dto

import "ledgerai/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ChatMessageResponse struct {
	Position  int                 `json:"position"`
	Role      string              `json:"role"`
	Content   string              `json:"content"`
	Timestamp string              `json:"timestamp"`
	Draft     *model.DraftPayload `json:"draft,omitempty"`
	Confirmed bool                `json:"confirmed"`
}

type ChatSessionResponse struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	LastUpdate string                `json:"last_update"`
	Messages   []ChatMessageResponse `json:"messages,omitempty"`
}

// ChatTurnResponse is returned from one send-message round trip: the
// assistant's reply and, when the intent was actionable, its position so the
// client can confirm it later.
type ChatTurnResponse struct {
	Message   ChatMessageResponse `json:"message"`
	HasDraft  bool                `json:"has_draft"`
	Confirmed *ConfirmResponse    `json:"confirmed,omitempty"` // set for CONFIRM_ACTION turns
}

// ConfirmResponse reports the outcome of a draft confirmation. Applied is
// false when the confirmation was a no-op (missing draft, already
// confirmed); a no-op is not an error.
type ConfirmResponse struct {
	Applied          bool   `json:"applied"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
	Intent           string `json:"intent,omitempty"`
	TransactionID    string `json:"transaction_id,omitempty"`
}
