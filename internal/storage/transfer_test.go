package storage

import (
	"context"
	"testing"

	"acquisti/internal/core"
)

func TestExportImportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewPurchaseRepository(store)
	transfer := NewTransfer(store)
	ctx := context.Background()

	a := mustCreate(t, repo, "2024-01-10", []core.Item{{Name: "milk", Qty: 2, Price: 1.5}})
	b := mustCreate(t, repo, "2024-02-10", []core.Item{
		{Name: "bread", Qty: 1, Price: 2.25},
		{Name: "eggs", Qty: 6, Price: 0.25},
	})

	dump, err := transfer.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(dump) != 2 {
		t.Fatalf("expected 2 exported purchases, got %d", len(dump))
	}
	if dump[0].Date != "2024-02-10" {
		t.Errorf("export should be date descending, first is %s", dump[0].Date)
	}

	// Add a purchase that must vanish on re-import: the import is a
	// whole-dataset replacement.
	mustCreate(t, repo, "2024-03-01", []core.Item{{Name: "wine", Qty: 1, Price: 8}})

	imported, err := transfer.ImportAll(ctx, dump)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 {
		t.Errorf("imported = %d, want 2", imported)
	}

	after, err := transfer.ExportAll(ctx)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 purchases after replacement, got %d", len(after))
	}
	byID := map[string]core.Purchase{}
	for _, p := range after {
		byID[p.ID] = p
	}
	for _, want := range []string{a, b} {
		p, ok := byID[want]
		if !ok {
			t.Fatalf("purchase %s missing after round trip", want)
		}
		if p.Total != core.ItemsTotal(p.Items) {
			t.Errorf("purchase %s total %v != item sum %v", want, p.Total, core.ItemsTotal(p.Items))
		}
	}
	if byID[a].Total != 3 || byID[b].Total != 3.75 {
		t.Errorf("totals not preserved: %v, %v", byID[a].Total, byID[b].Total)
	}
}

func TestImportSkipsRecordsWithoutDate(t *testing.T) {
	store := newTestStore(t)
	transfer := NewTransfer(store)
	ctx := context.Background()

	imported, err := transfer.ImportAll(ctx, []core.Purchase{
		{Date: "", Items: []core.Item{{Name: "ghost", Qty: 1, Price: 1}}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 0 {
		t.Errorf("imported = %d, want 0", imported)
	}
	if n := countRows(t, store, "purchases"); n != 0 {
		t.Errorf("dataset should be empty, has %d purchases", n)
	}
	if n := countRows(t, store, "items"); n != 0 {
		t.Errorf("no items should have been written, found %d", n)
	}
}

func TestImportGeneratesMissingIDsAndRecomputesTotals(t *testing.T) {
	store := newTestStore(t)
	transfer := NewTransfer(store)
	ctx := context.Background()

	records := []core.Purchase{
		// Total lies on purpose; the import must recompute it.
		{Date: "2024-01-01", Total: 999, Items: []core.Item{{Name: "milk", Qty: 2, Price: 1.5}}},
		{ID: "fixed-id", Date: "2024-01-02", Items: []core.Item{{Name: "bread", Qty: 1, Price: 2}}},
	}

	if _, err := transfer.ImportAll(ctx, records); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := transfer.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 purchases, got %d", len(got))
	}
	for _, p := range got {
		if p.ID == "" {
			t.Error("imported purchase has no id")
		}
		if p.Total != core.ItemsTotal(p.Items) {
			t.Errorf("total %v was not recomputed (items sum to %v)", p.Total, core.ItemsTotal(p.Items))
		}
	}
}

func TestFailedImportLeavesDatasetIntact(t *testing.T) {
	store := newTestStore(t)
	repo := NewPurchaseRepository(store)
	transfer := NewTransfer(store)
	ctx := context.Background()

	keep := mustCreate(t, repo, "2024-01-01", []core.Item{{Name: "milk", Qty: 1, Price: 1}})

	t.Run("rejected before deletion", func(t *testing.T) {
		_, err := transfer.ImportAll(ctx, []core.Purchase{
			{Date: "2024-02-01", Items: []core.Item{{Name: "bad", Qty: -1, Price: 1}}},
		})
		if !core.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rolled back mid-transaction", func(t *testing.T) {
		// Duplicate ids violate the primary key after the old data is
		// already gone inside the transaction.
		_, err := transfer.ImportAll(ctx, []core.Purchase{
			{ID: "dup", Date: "2024-02-01", Items: []core.Item{{Name: "a", Qty: 1, Price: 1}}},
			{ID: "dup", Date: "2024-02-02", Items: []core.Item{{Name: "b", Qty: 1, Price: 1}}},
		})
		if err == nil {
			t.Fatal("expected import to fail on duplicate ids")
		}
	})

	got, err := transfer.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(got) != 1 || got[0].ID != keep {
		t.Fatalf("prior dataset not intact: %+v", got)
	}
}
