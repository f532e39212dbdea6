package core

import "strings"

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type (
	SortOrder string

	// Item is one line of a purchase: a name, a quantity and a unit price.
	// Items have no identity of their own; they are always written and
	// deleted together with their owning purchase.
	Item struct {
		Name  string  `json:"name"`
		Qty   int64   `json:"qty"`
		Price float64 `json:"price"`
	}

	// Purchase is one ledger entry. Total is always derived from the
	// items and never accepted from a caller.
	Purchase struct {
		ID    string  `json:"id"`
		Date  string  `json:"date"`
		Total float64 `json:"total"`
		Items []Item  `json:"items"`
	}

	// RangeTotal is the result of a date-range aggregation.
	RangeTotal struct {
		Total float64 `json:"total"`
		Count int64   `json:"count"`
	}

	// ProductRank is one group of the top-products ranking. Name carries
	// whichever literal spelling the store surfaced for the group.
	ProductRank struct {
		Name  string  `json:"name"`
		Qty   int64   `json:"qty"`
		Spent float64 `json:"spent"`
	}
)

// ItemsTotal derives the purchase total as the sum of qty*price.
func ItemsTotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Qty) * it.Price
	}
	return total
}

func (i Item) Validate() error {
	if i.Qty < 0 {
		return &ValidationError{Field: "qty", Reason: "must not be negative"}
	}
	if i.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// ValidateNew checks the caller-supplied fields of a purchase before it
// is written. Dates only have to be non-empty; range queries compare
// them lexically, so well-formed YYYY-MM-DD input is the caller's
// contract, not ours to enforce.
func ValidateNew(date string, items []Item) error {
	if strings.TrimSpace(date) == "" {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Reason: "at least one item required"}
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeOrder folds any value other than "desc" to ascending. The
// two-way fold mirrors the list endpoint's historical behavior; unknown
// values are not an error.
func NormalizeOrder(s string) SortOrder {
	if s == string(OrderDesc) {
		return OrderDesc
	}
	return OrderAsc
}
