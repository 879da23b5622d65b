package store

import (
	"context"
	"fmt"
	"iter"
)

// DefaultPageSize is the number of rows fetched per query by Pages.
const DefaultPageSize = 100

// PageFunc fetches up to limit records whose id is greater than after,
// ordered by id ascending.
type PageFunc[T any] func(ctx context.Context, after int64, limit int) ([]T, error)

// Pages returns a lazy, id-ordered sequence over every record fetch can
// produce. Each page is one short query, so ranging over the sequence again
// reflects the current state rather than a snapshot. Iteration stops after
// the first error, which is yielded with a zero record.
func Pages[T any](ctx context.Context, size int, id func(T) int64, fetch PageFunc[T]) iter.Seq2[T, error] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return func(yield func(T, error) bool) {
		var after int64
		for {
			page, err := fetch(ctx, after, size)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
				after = id(rec)
			}
			if len(page) < size {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for rec, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// QueryPage runs a keyset page query taking (after, limit) as its only
// arguments and scans every row with scan. op names the listing in errors.
func QueryPage[T any](ctx context.Context, q Querier, op, query string, after int64, limit int, scan func(Scanner) (T, error)) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, Wrap(op, err)
	}
	defer rows.Close()

	page := make([]T, 0, limit)
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, Wrap(op, fmt.Errorf("scan: %w", err))
		}
		page = append(page, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap(op, fmt.Errorf("iterate: %w", err))
	}
	return page, nil
}
