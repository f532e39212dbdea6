package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindPurchaseCreated = "purchase.created"
	KindPurchaseDeleted = "purchase.deleted"
	KindDatasetReplaced = "dataset.replaced"
)

// LedgerEventMessage announces a completed write. It carries only
// identifiers; consumers re-read whatever they need from the API.
type LedgerEventMessage struct {
	Kind       string    `json:"kind"`
	PurchaseID string    `json:"purchase_id,omitempty"`
	Count      int       `json:"count"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewPurchaseCreatedMessage(id string) *LedgerEventMessage {
	return &LedgerEventMessage{Kind: KindPurchaseCreated, PurchaseID: id, Timestamp: time.Now()}
}

func NewPurchaseDeletedMessage(id string) *LedgerEventMessage {
	return &LedgerEventMessage{Kind: KindPurchaseDeleted, PurchaseID: id, Timestamp: time.Now()}
}

func NewDatasetReplacedMessage(count int) *LedgerEventMessage {
	return &LedgerEventMessage{Kind: KindDatasetReplaced, Count: count, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
