package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"acquisti/internal/core"

	"github.com/google/uuid"
)

// Transfer serializes the whole dataset and performs atomic
// replace-all import. Export output is directly usable as import input.
type Transfer struct {
	store *Store
}

func NewTransfer(store *Store) *Transfer {
	return &Transfer{store: store}
}

// ExportAll dumps every purchase with nested items, date descending.
func (t *Transfer) ExportAll(ctx context.Context) ([]core.Purchase, error) {
	return listPurchases(ctx, t.store.db,
		`SELECT id, date, total FROM purchases ORDER BY date DESC, id ASC`)
}

// ImportAll irrevocably replaces the entire dataset with the given
// records inside one transaction: on any failure the prior dataset
// survives untouched. Records without a date are skipped, records
// without an id get a fresh one, and totals are always recomputed from
// the items regardless of what the input claims. Returns the number of
// purchases imported.
func (t *Transfer) ImportAll(ctx context.Context, records []core.Purchase) (int, error) {
	// Reject malformed input before anything is deleted.
	for _, rec := range records {
		for _, it := range rec.Items {
			if err := it.Validate(); err != nil {
				return 0, err
			}
		}
	}

	imported := 0
	err := t.store.withTx(ctx, "import dataset", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
			return &core.StorageError{Op: "clear items", Err: err}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM purchases`); err != nil {
			return &core.StorageError{Op: "clear purchases", Err: err}
		}

		for _, rec := range records {
			if rec.Date == "" {
				continue
			}
			id := rec.ID
			if id == "" {
				id = uuid.NewString()
			}
			total := core.ItemsTotal(rec.Items)

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO purchases (id, date, total) VALUES (?, ?, ?)`,
				id, rec.Date, total); err != nil {
				return &core.StorageError{Op: "insert purchase", Err: err}
			}
			for _, it := range rec.Items {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO items (purchase_id, name, qty, price) VALUES (?, ?, ?, ?)`,
					id, it.Name, it.Qty, it.Price); err != nil {
					return &core.StorageError{Op: "insert item", Err: err}
				}
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Dataset replaced",
		"records", len(records),
		"imported", imported)

	return imported, nil
}
