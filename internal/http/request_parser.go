// Request payload types for the JSON API. Bodies are decoded once at
// the boundary into typed structs; handlers and everything below them
// only see well-typed values.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"acquisti/internal/core"
)

// flexInt accepts a JSON number or a numeric string. Fractional
// numbers truncate toward zero; fractional strings are an error, so
// `"qty": 3.7` imports as 3 while `"qty": "3.7"` is rejected. Only an
// absent key defaults to zero; an explicit null fails coercion.
type flexInt int64

func (v *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return fmt.Errorf("cannot coerce null to integer")
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("cannot coerce %q to integer", raw)
		}
		*v = flexInt(i)
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = flexInt(i)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("cannot coerce %q to integer", s)
	}
	*v = flexInt(int64(f))
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Like flexInt,
// an explicit null fails coercion; only an absent key defaults.
type flexFloat float64

func (v *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return fmt.Errorf("cannot coerce null to decimal")
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		s = strings.TrimSpace(raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot coerce %q to decimal", s)
	}
	*v = flexFloat(f)
	return nil
}

type itemPayload struct {
	Name  string    `json:"name"`
	Qty   flexInt   `json:"qty"`
	Price flexFloat `json:"price"`
}

type createPurchaseRequest struct {
	Date  string        `json:"date"`
	Items []itemPayload `json:"items"`
}

type importRecord struct {
	ID    string        `json:"id"`
	Date  string        `json:"date"`
	Items []itemPayload `json:"items"`
	// A total field in the input is deliberately dropped: totals are
	// always recomputed from the items.
}

func toItems(payload []itemPayload) []core.Item {
	items := make([]core.Item, len(payload))
	for i, it := range payload {
		items[i] = core.Item{Name: it.Name, Qty: int64(it.Qty), Price: float64(it.Price)}
	}
	return items
}

// decodeCreateRequest parses a create body. Any decode or coercion
// failure is a ValidationError; nothing is silently defaulted.
func decodeCreateRequest(body io.Reader) (*createPurchaseRequest, error) {
	var req createPurchaseRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, &core.ValidationError{Field: "body", Reason: "invalid item format"}
	}
	return &req, nil
}

// decodeImportRequest parses an import body, which must be a JSON
// array of purchase records. Anything else, null included, is rejected
// here — before the replace-all import gets a chance to delete anything.
func decodeImportRequest(body io.Reader) ([]core.Purchase, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, &core.ValidationError{Field: "body", Reason: "expected array"}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, &core.ValidationError{Field: "body", Reason: "expected array"}
	}
	var recs []importRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, &core.ValidationError{Field: "body", Reason: "expected array"}
	}
	records := make([]core.Purchase, len(recs))
	for i, rec := range recs {
		records[i] = core.Purchase{ID: rec.ID, Date: rec.Date, Items: toItems(rec.Items)}
	}
	return records, nil
}
