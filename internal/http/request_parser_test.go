package http

import (
	"strings"
	"testing"

	"acquisti/internal/core"
)

func TestDecodeCreateRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, req *createPurchaseRequest)
	}{
		{
			name: "numeric fields",
			body: `{"date":"2024-01-15","items":[{"name":"milk","qty":2,"price":1.5}]}`,
			check: func(t *testing.T, req *createPurchaseRequest) {
				if req.Items[0].Qty != 2 || req.Items[0].Price != 1.5 {
					t.Errorf("got qty=%d price=%v", req.Items[0].Qty, req.Items[0].Price)
				}
			},
		},
		{
			name: "string numbers coerce",
			body: `{"date":"2024-01-15","items":[{"name":"milk","qty":"4","price":"0.75"}]}`,
			check: func(t *testing.T, req *createPurchaseRequest) {
				if req.Items[0].Qty != 4 || req.Items[0].Price != 0.75 {
					t.Errorf("got qty=%d price=%v", req.Items[0].Qty, req.Items[0].Price)
				}
			},
		},
		{
			name: "fractional qty truncates toward zero",
			body: `{"date":"2024-01-15","items":[{"name":"milk","qty":3.7,"price":1}]}`,
			check: func(t *testing.T, req *createPurchaseRequest) {
				if req.Items[0].Qty != 3 {
					t.Errorf("qty = %d, want 3", req.Items[0].Qty)
				}
			},
		},
		{
			name: "missing qty and price default to zero",
			body: `{"date":"2024-01-15","items":[{"name":"milk"}]}`,
			check: func(t *testing.T, req *createPurchaseRequest) {
				if req.Items[0].Qty != 0 || req.Items[0].Price != 0 {
					t.Errorf("got qty=%d price=%v", req.Items[0].Qty, req.Items[0].Price)
				}
			},
		},
		{name: "explicit null qty", body: `{"date":"x","items":[{"name":"milk","qty":null,"price":1}]}`, wantErr: true},
		{name: "explicit null price", body: `{"date":"x","items":[{"name":"milk","qty":1,"price":null}]}`, wantErr: true},
		{name: "non-numeric qty", body: `{"date":"x","items":[{"qty":"two"}]}`, wantErr: true},
		{name: "fractional string qty", body: `{"date":"x","items":[{"qty":"3.7"}]}`, wantErr: true},
		{name: "non-numeric price", body: `{"date":"x","items":[{"price":"cheap"}]}`, wantErr: true},
		{name: "not json", body: `date=2024-01-15`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := decodeCreateRequest(strings.NewReader(tt.body))
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, req)
		})
	}
}

func TestDecodeImportRequest(t *testing.T) {
	t.Run("array decodes with totals dropped", func(t *testing.T) {
		records, err := decodeImportRequest(strings.NewReader(
			`[{"id":"a","date":"2024-01-01","total":999,"items":[{"name":"x","qty":1,"price":2}]}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("got %d records", len(records))
		}
		if records[0].Total != 0 {
			t.Errorf("input total should be dropped, got %v", records[0].Total)
		}
		if records[0].ID != "a" || records[0].Items[0].Price != 2 {
			t.Errorf("record fields lost: %+v", records[0])
		}
	})

	t.Run("object is rejected", func(t *testing.T) {
		_, err := decodeImportRequest(strings.NewReader(`{"date":"2024-01-01"}`))
		if !core.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("null is rejected", func(t *testing.T) {
		_, err := decodeImportRequest(strings.NewReader(`null`))
		if !core.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("scalar is rejected", func(t *testing.T) {
		for _, body := range []string{`42`, `"list"`, `true`} {
			if _, err := decodeImportRequest(strings.NewReader(body)); !core.IsValidation(err) {
				t.Fatalf("body %s: expected ValidationError, got %v", body, err)
			}
		}
	})

	t.Run("empty array is fine", func(t *testing.T) {
		records, err := decodeImportRequest(strings.NewReader(`[]`))
		if err != nil || len(records) != 0 {
			t.Fatalf("got %v, %v", records, err)
		}
	})
}
