package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/gestion/internal/model"
	"github.com/roach88/gestion/internal/store"
)

const productColumns = `id, name, price, stock, note`

// Products is the product collection. It owns stock levels.
type Products struct {
	store    *store.Store
	pageSize int
}

// NewProducts returns the product registry backed by s.
func NewProducts(s *store.Store, pageSize int) *Products {
	return &Products{store: s, pageSize: pageSize}
}

// Add validates f, stores it under a new id and returns the stored product.
func (r *Products) Add(ctx context.Context, f model.ProductFields) (model.Product, error) {
	p := model.NormalizeProduct(model.Product{
		Name:  f.Name,
		Price: f.Price,
		Stock: f.Stock,
		Note:  f.Note,
	})
	if err := model.ValidateProduct(p); err != nil {
		return model.Product{}, err
	}

	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, price, stock, note)
			VALUES (?, ?, ?, ?)
		`, p.Name, model.FormatMoney(p.Price), p.Stock, p.Note)
		if err != nil {
			return store.Wrap("insert product", err)
		}
		p.ID, err = res.LastInsertId()
		return store.Wrap("insert product", err)
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("add product: %w", err)
	}

	slog.Debug("product added", "id", p.ID, "price", model.FormatMoney(p.Price), "stock", p.Stock)
	return p, nil
}

// Get returns the product with the given id.
func (r *Products) Get(ctx context.Context, id int64) (model.Product, error) {
	return r.GetWith(ctx, r.store.Reader(), id)
}

// GetWith reads the product through q, which may be an open transaction.
func (r *Products) GetWith(ctx context.Context, q store.Querier, id int64) (model.Product, error) {
	row := q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, model.NewNotFoundError("product", id)
	}
	if err != nil {
		return model.Product{}, store.Wrap("get product", err)
	}
	return p, nil
}

// List returns every product ordered by id.
func (r *Products) List(ctx context.Context) iter.Seq2[model.Product, error] {
	return store.Pages(ctx, r.pageSize, func(p model.Product) int64 { return p.ID }, r.page)
}

func (r *Products) page(ctx context.Context, after int64, limit int) ([]model.Product, error) {
	return store.QueryPage(ctx, r.store.Reader(), "list products", `
		SELECT `+productColumns+`
		FROM products
		WHERE id > ?
		ORDER BY id ASC
		LIMIT ?
	`, after, limit, scanProduct)
}

// Edit overwrites the fields set in p and returns the updated product.
// Sales already recorded keep the price they were recorded at.
func (r *Products) Edit(ctx context.Context, id int64, pp model.ProductPatch) (model.Product, error) {
	var updated model.Product
	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		current, err := r.GetWith(ctx, tx, id)
		if err != nil {
			return err
		}
		updated = model.NormalizeProduct(pp.Apply(current))
		if err := model.ValidateProduct(updated); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET name = ?, price = ?, stock = ?, note = ?
			WHERE id = ?
		`, updated.Name, model.FormatMoney(updated.Price), updated.Stock, updated.Note, id)
		return store.Wrap("update product", err)
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("edit product: %w", err)
	}

	slog.Debug("product edited", "id", id)
	return updated, nil
}

// Delete removes the product. Sales that referenced it are kept with their
// product reference cleared.
func (r *Products) Delete(ctx context.Context, id int64) error {
	var cleared int64
	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		if _, err := r.GetWith(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE sales SET product_id = NULL WHERE product_id = ?`, id)
		if err != nil {
			return store.Wrap("clear sale product references", err)
		}
		if cleared, err = res.RowsAffected(); err != nil {
			return store.Wrap("clear sale product references", err)
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
		return store.Wrap("delete product", err)
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	slog.Debug("product deleted", "id", id, "sales_cleared", cleared)
	return nil
}

// AdjustStock adds delta (which may be negative) to the product's stock
// inside tx and returns the new stock. It never commits: the change lives or
// dies with the caller's transaction.
//
// Returns INSUFFICIENT_STOCK if the result would be negative and NOT_FOUND if
// the product does not exist. Stock is unchanged in both cases.
func (r *Products) AdjustStock(ctx context.Context, tx *store.Tx, id, delta int64) (int64, error) {
	// The guard in the WHERE clause makes check-and-decrement one statement.
	res, err := tx.ExecContext(ctx, `
		UPDATE products SET stock = stock + ?
		WHERE id = ? AND stock + ? >= 0
	`, delta, id, delta)
	if err != nil {
		return 0, store.Wrap("adjust stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, store.Wrap("adjust stock", err)
	}

	var stock int64
	err = tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, id).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, model.NewNotFoundError("product", id)
	}
	if err != nil {
		return 0, store.Wrap("read stock", err)
	}
	if n == 0 {
		return 0, model.NewInsufficientStockError(id, -delta, stock)
	}
	return stock, nil
}

// Restock applies delta to the product's stock in its own transaction and
// returns the updated product.
func (r *Products) Restock(ctx context.Context, id, delta int64) (model.Product, error) {
	var p model.Product
	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		if _, err := r.AdjustStock(ctx, tx, id, delta); err != nil {
			return err
		}
		var err error
		p, err = r.GetWith(ctx, tx, id)
		return err
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("restock product: %w", err)
	}

	slog.Debug("product restocked", "id", id, "delta", delta, "stock", p.Stock)
	return p, nil
}

func scanProduct(s store.Scanner) (model.Product, error) {
	var p model.Product
	if err := s.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Note); err != nil {
		return model.Product{}, err
	}
	return p, nil
}
