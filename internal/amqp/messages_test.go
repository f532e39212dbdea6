package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestLedgerEventMessageRoundTrip(t *testing.T) {
	msg := NewPurchaseCreatedMessage("abc-123")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindPurchaseCreated || got.PurchaseID != "abc-123" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestMessageConstructors(t *testing.T) {
	before := time.Now()

	del := NewPurchaseDeletedMessage("id-1")
	if del.Kind != KindPurchaseDeleted || del.PurchaseID != "id-1" {
		t.Errorf("unexpected delete message: %+v", del)
	}

	rep := NewDatasetReplacedMessage(42)
	if rep.Kind != KindDatasetReplaced || rep.Count != 42 || rep.PurchaseID != "" {
		t.Errorf("unexpected replace message: %+v", rep)
	}
	if rep.Timestamp.Before(before) {
		t.Error("timestamp not set")
	}
}

func TestDatasetReplacedKeepsZeroCount(t *testing.T) {
	// Replacing the dataset with nothing is a real event; its count
	// must serialize as 0, not vanish.
	data, err := NewDatasetReplacedMessage(0).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"count":0`) {
		t.Errorf("count field missing from %s", data)
	}

	got, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Count != 0 || got.Kind != KindDatasetReplaced {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error")
	}
}
