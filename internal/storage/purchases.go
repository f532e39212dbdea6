package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"acquisti/internal/core"

	"github.com/google/uuid"
)

// PurchaseRepository implements create/list/delete over the Store. It
// enforces the derived-total invariant: every purchase row it writes
// carries total == sum(qty*price) over its items.
type PurchaseRepository struct {
	store *Store
}

func NewPurchaseRepository(store *Store) *PurchaseRepository {
	return &PurchaseRepository{store: store}
}

// Create writes a purchase and all its items in one transaction and
// returns the generated id. Input is assumed validated by the caller
// (see core.ValidateNew); the total is always recomputed here.
func (r *PurchaseRepository) Create(ctx context.Context, date string, items []core.Item) (string, error) {
	id := uuid.NewString()
	total := core.ItemsTotal(items)

	err := r.store.withTx(ctx, "create purchase", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO purchases (id, date, total) VALUES (?, ?, ?)`,
			id, date, total); err != nil {
			return &core.StorageError{Op: "insert purchase", Err: err}
		}
		for _, it := range items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (purchase_id, name, qty, price) VALUES (?, ?, ?, ?)`,
				id, it.Name, it.Qty, it.Price); err != nil {
				return &core.StorageError{Op: "insert item", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Purchase created",
		"id", id,
		"date", date,
		"items", len(items),
		"total", total)

	return id, nil
}

// List returns all purchases with their nested items, date-ordered per
// order. A non-empty query keeps purchases whose id or date equals it
// literally, or that own an item whose name contains it
// case-insensitively. The three predicates OR together.
func (r *PurchaseRepository) List(ctx context.Context, query string, order core.SortOrder) ([]core.Purchase, error) {
	sqlStr := `SELECT id, date, total FROM purchases`
	var args []any
	if query != "" {
		sqlStr += ` WHERE id = ? OR date = ?
			OR EXISTS (SELECT 1 FROM items i WHERE i.purchase_id = purchases.id AND instr(lower(i.name), lower(?)) > 0)`
		args = append(args, query, query, query)
	}
	dir := "ASC"
	if order == core.OrderDesc {
		dir = "DESC"
	}
	// id as secondary sort keeps output deterministic across runs
	sqlStr += fmt.Sprintf(` ORDER BY date %s, id ASC`, dir)

	return listPurchases(ctx, r.store.db, sqlStr, args...)
}

// Delete removes the purchase and its items in one transaction. A
// missing id is a NotFoundError; deleting twice fails the second time.
func (r *PurchaseRepository) Delete(ctx context.Context, id string) error {
	err := r.store.withTx(ctx, "delete purchase", func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM purchases WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return &core.NotFoundError{ID: id}
		}
		if err != nil {
			return &core.StorageError{Op: "lookup purchase", Err: err}
		}

		// Items first: explicit two-step cascade, no orphans even
		// without the foreign_keys pragma.
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE purchase_id = ?`, id); err != nil {
			return &core.StorageError{Op: "delete items", Err: err}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id); err != nil {
			return &core.StorageError{Op: "delete purchase", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Purchase deleted", "id", id)
	return nil
}

// listPurchases runs a purchase query and attaches items to each row.
func listPurchases(ctx context.Context, q querier, sqlStr string, args ...any) ([]core.Purchase, error) {
	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, &core.StorageError{Op: "query purchases", Err: err}
	}
	defer rows.Close()

	purchases := []core.Purchase{}
	for rows.Next() {
		var p core.Purchase
		if err := rows.Scan(&p.ID, &p.Date, &p.Total); err != nil {
			return nil, &core.StorageError{Op: "scan purchase", Err: err}
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StorageError{Op: "iterate purchases", Err: err}
	}

	for i := range purchases {
		items, err := loadItems(ctx, q, purchases[i].ID)
		if err != nil {
			return nil, err
		}
		purchases[i].Items = items
	}
	return purchases, nil
}

func loadItems(ctx context.Context, q querier, purchaseID string) ([]core.Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, qty, price FROM items WHERE purchase_id = ? ORDER BY id`, purchaseID)
	if err != nil {
		return nil, &core.StorageError{Op: "query items", Err: err}
	}
	defer rows.Close()

	items := []core.Item{}
	for rows.Next() {
		var it core.Item
		if err := rows.Scan(&it.Name, &it.Qty, &it.Price); err != nil {
			return nil, &core.StorageError{Op: "scan item", Err: err}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StorageError{Op: "iterate items", Err: err}
	}
	return items, nil
}
