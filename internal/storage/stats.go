package storage

import (
	"context"

	"acquisti/internal/core"
)

const defaultTopLimit = 10

// StatsEngine answers aggregate queries over the ledger. Reads go
// straight to the store; nothing is cached.
type StatsEngine struct {
	store *Store
}

func NewStatsEngine(store *Store) *StatsEngine {
	return &StatsEngine{store: store}
}

// TotalInRange sums totals and counts purchases inside the lexical date
// window [from, to]. Either bound may be empty. ISO-8601 dates make the
// lexical comparison match calendar order.
func (e *StatsEngine) TotalInRange(ctx context.Context, from, to string) (core.RangeTotal, error) {
	sqlStr := `SELECT COALESCE(SUM(total), 0), COUNT(*) FROM purchases WHERE 1=1`
	var args []any
	if from != "" {
		sqlStr += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		sqlStr += ` AND date <= ?`
		args = append(args, to)
	}

	var rt core.RangeTotal
	if err := e.store.db.QueryRowContext(ctx, sqlStr, args...).Scan(&rt.Total, &rt.Count); err != nil {
		return core.RangeTotal{}, &core.StorageError{Op: "total in range", Err: err}
	}
	return rt, nil
}

// TopProducts groups all items by case-folded name and returns the
// limit groups with the highest summed quantity. Quantity ties break
// lexically on the normalized name so the ranking is deterministic; the
// displayed name is whichever spelling the store surfaces for the group.
func (e *StatsEngine) TopProducts(ctx context.Context, limit int) ([]core.ProductRank, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	rows, err := e.store.db.QueryContext(ctx,
		`SELECT lower(name) AS keyname, name, SUM(qty) AS total_qty, SUM(qty * price) AS spent
		 FROM items
		 GROUP BY keyname
		 ORDER BY total_qty DESC, keyname ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, &core.StorageError{Op: "top products", Err: err}
	}
	defer rows.Close()

	ranks := []core.ProductRank{}
	for rows.Next() {
		var keyname string
		var r core.ProductRank
		if err := rows.Scan(&keyname, &r.Name, &r.Qty, &r.Spent); err != nil {
			return nil, &core.StorageError{Op: "scan product rank", Err: err}
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StorageError{Op: "iterate product ranks", Err: err}
	}
	return ranks, nil
}
