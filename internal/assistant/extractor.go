// Package assistant wraps the hosted LLM that turns free-text requests into
// structured ledger intents. The rest of the system treats it as an opaque
// function: text plus a context snapshot in, intent plus string fields out —
// or a failure the chat path degrades from, never crashes on.
package assistant

import (
	"context"

	"ledgerai/internal/model"
)

// CustomerContext is the slice of customer state the model sees.
type CustomerContext struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// ProductContext is the slice of product state the model sees.
type ProductContext struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Snapshot is what the extractor knows about the ledger for one turn.
type Snapshot struct {
	Customers []CustomerContext
	Products  []ProductContext
}

// HistoryEntry is one prior turn passed along for conversational context.
type HistoryEntry struct {
	Role    string
	Content string
}

// Result is the structured extractor output. Numeric fields arrive as
// strings and cross the sanitization boundary before touching the ledger.
type Result struct {
	Message string
	Intent  string
	Data    model.DraftPayload
}

// Extractor classifies a user message against the ledger snapshot.
// Implementations must either return a usable Result or an error the caller
// degrades to a GENERAL_CHAT reply — partial results are not allowed.
type Extractor interface {
	Extract(ctx context.Context, message string, snapshot Snapshot, history []HistoryEntry) (*Result, error)
}
