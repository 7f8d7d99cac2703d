package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Intent kinds returned by the assistant. The "actionable" subset produces a
// draft that waits for user confirmation; the rest are plain replies.
const (
	IntentSaleRecord       = "SALE_RECORD"
	IntentPurchaseRecord   = "PURCHASE_RECORD"
	IntentCollectionRecord = "COLLECTION_RECORD"
	IntentCustomerAdd      = "CUSTOMER_ADD"
	IntentCustomerUpdate   = "CUSTOMER_UPDATE"
	IntentCustomerDelete   = "CUSTOMER_DELETE"
	IntentProductAdd       = "PRODUCT_ADD"
	IntentProductUpdate    = "PRODUCT_UPDATE"
	IntentStockAdjust      = "STOCK_ADJUST"
	IntentConfirmAction    = "CONFIRM_ACTION"
	IntentGeneralChat      = "GENERAL_CHAT"
	IntentDashboardInsight = "DASHBOARD_INSIGHT"
)

var actionableIntents = map[string]bool{
	IntentSaleRecord:       true,
	IntentPurchaseRecord:   true,
	IntentCollectionRecord: true,
	IntentCustomerAdd:      true,
	IntentCustomerUpdate:   true,
	IntentCustomerDelete:   true,
	IntentProductAdd:       true,
	IntentProductUpdate:    true,
	IntentStockAdjust:      true,
}

// IsActionableIntent reports whether the intent produces a confirmable draft.
func IsActionableIntent(intent string) bool { return actionableIntents[intent] }

// DraftPayload is a proposed ledger mutation attached to an assistant message.
// Numeric fields stay strings until they cross the sanitization boundary —
// the extractor is not trusted to emit well-formed numbers.
type DraftPayload struct {
	Intent       string `json:"intent"`
	CustomerName string `json:"customerName,omitempty"`
	ProductName  string `json:"productName,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	Price        string `json:"price,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Category     string `json:"category,omitempty"`
	NewStock     string `json:"newStock,omitempty"`
}

// Value serializes the payload as JSONB for storage.
func (d DraftPayload) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan deserializes the payload from JSONB.
func (d *DraftPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		return nil
	}
	return errors.New("draft payload: unsupported scan source")
}

// ChatMessage is one turn in a session. A message with a non-nil Draft and
// Confirmed=false is a pending draft; confirmation flips Confirmed exactly
// once — re-confirming is a no-op, never a second ledger mutation.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"index;not null"`
	Position  int    `gorm:"not null"` // 0-based order within the session
	Role      string `gorm:"not null"` // "user" | "assistant"
	Content   string `gorm:"not null"`
	Timestamp time.Time
	Draft     *DraftPayload `gorm:"type:jsonb"`
	Confirmed bool          `gorm:"not null;default:false"`
}

// ChatSession is an append-only conversation log.
type ChatSession struct {
	ID         string `gorm:"primaryKey"` // "s-" + uuid
	Title      string `gorm:"not null"`
	LastUpdate time.Time
	Messages   []ChatMessage `gorm:"foreignKey:SessionID"`
}
