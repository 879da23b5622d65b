package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/gestion/internal/model"
	"github.com/roach88/gestion/internal/registry"
	"github.com/roach88/gestion/internal/store"
)

// Engine records and lists sales.
type Engine struct {
	store    *store.Store
	clients  *registry.Clients
	products *registry.Products
	clock    Clock
	pageSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to stamp new sales.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithPageSize sets the number of sales fetched per query by ListSales.
func WithPageSize(n int) Option {
	return func(e *Engine) { e.pageSize = n }
}

// NewEngine returns a sales engine over s using the given registries.
func NewEngine(s *store.Store, clients *registry.Clients, products *registry.Products, opts ...Option) *Engine {
	e := &Engine{
		store:    s,
		clients:  clients,
		products: products,
		clock:    SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecordSale sells quantity units of productID, optionally to clientID.
//
// Returns VALIDATION if quantity is not positive, NOT_FOUND if the product or
// a given client does not exist, and INSUFFICIENT_STOCK if the product has
// fewer than quantity units. On any error no stock changes and no sale is
// stored.
func (e *Engine) RecordSale(ctx context.Context, clientID *int64, productID, quantity int64) (model.Sale, error) {
	if quantity <= 0 {
		return model.Sale{}, model.NewValidationError("quantity", "quantity must be positive, got %d", quantity)
	}

	var sale model.Sale
	err := e.store.RunInTx(ctx, func(tx *store.Tx) error {
		product, err := e.products.GetWith(ctx, tx, productID)
		if err != nil {
			return err
		}
		if clientID != nil {
			if _, err := e.clients.GetWith(ctx, tx, *clientID); err != nil {
				return err
			}
		}
		if _, err := e.products.AdjustStock(ctx, tx, productID, -quantity); err != nil {
			return err
		}

		sale = model.Sale{
			ClientID:  clientID,
			ProductID: &productID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Total:     model.LineTotal(product.Price, quantity),
		}
		createdAt := formatTimestamp(e.clock.Now())
		sale.CreatedAt, err = parseTimestamp(createdAt)
		if err != nil {
			return fmt.Errorf("stamp sale: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO sales (client_id, product_id, quantity, unit_price, total, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, nullableID(clientID), productID, quantity,
			model.FormatMoney(sale.UnitPrice), model.FormatMoney(sale.Total), createdAt)
		if err != nil {
			return store.Wrap("insert sale", err)
		}
		sale.ID, err = res.LastInsertId()
		return store.Wrap("insert sale", err)
	})
	if err != nil {
		return model.Sale{}, fmt.Errorf("record sale: %w", err)
	}

	slog.Debug("sale recorded",
		"id", sale.ID,
		"product_id", productID,
		"quantity", quantity,
		"total", model.FormatMoney(sale.Total),
	)
	return sale, nil
}

const saleViewQuery = `
	SELECT s.id, s.client_id, s.product_id, s.quantity, s.unit_price, s.total, s.created_at,
	       COALESCE(c.name, ''), COALESCE(p.name, '')
	FROM sales s
	LEFT JOIN clients c ON c.id = s.client_id
	LEFT JOIN products p ON p.id = s.product_id
`

// ListSales returns every recorded sale ordered by id, each joined with the
// current names of its client and product.
func (e *Engine) ListSales(ctx context.Context) iter.Seq2[model.SaleView, error] {
	return store.Pages(ctx, e.pageSize, func(v model.SaleView) int64 { return v.ID }, e.page)
}

func (e *Engine) page(ctx context.Context, after int64, limit int) ([]model.SaleView, error) {
	return store.QueryPage(ctx, e.store.Reader(), "list sales",
		saleViewQuery+`WHERE s.id > ? ORDER BY s.id ASC LIMIT ?`,
		after, limit, scanSaleView)
}

// GetSale returns one sale view or NOT_FOUND.
func (e *Engine) GetSale(ctx context.Context, id int64) (model.SaleView, error) {
	row := e.store.Reader().QueryRowContext(ctx, saleViewQuery+`WHERE s.id = ?`, id)
	v, err := scanSaleView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SaleView{}, model.NewNotFoundError("sale", id)
	}
	if err != nil {
		return model.SaleView{}, store.Wrap("get sale", err)
	}
	return v, nil
}

func scanSaleView(s store.Scanner) (model.SaleView, error) {
	var (
		v                   model.SaleView
		clientID, productID sql.NullInt64
		createdAt           string
	)
	err := s.Scan(&v.ID, &clientID, &productID, &v.Quantity, &v.UnitPrice, &v.Total,
		&createdAt, &v.ClientName, &v.ProductName)
	if err != nil {
		return model.SaleView{}, err
	}
	if clientID.Valid {
		v.ClientID = &clientID.Int64
	}
	if productID.Valid {
		v.ProductID = &productID.Int64
	}
	if v.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return model.SaleView{}, fmt.Errorf("created_at %q: %w", createdAt, err)
	}
	return v, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
