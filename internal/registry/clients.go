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

const clientColumns = `id, name, email, phone, note`

// Clients is the client collection.
type Clients struct {
	store    *store.Store
	pageSize int
}

// NewClients returns the client registry backed by s. pageSize bounds the
// rows fetched per query by List; zero selects store.DefaultPageSize.
func NewClients(s *store.Store, pageSize int) *Clients {
	return &Clients{store: s, pageSize: pageSize}
}

// Add validates f, stores it under a new id and returns the stored client.
func (r *Clients) Add(ctx context.Context, f model.ClientFields) (model.Client, error) {
	c := model.NormalizeClient(model.Client{
		Name:  f.Name,
		Email: f.Email,
		Phone: f.Phone,
		Note:  f.Note,
	})
	if err := model.ValidateClient(c); err != nil {
		return model.Client{}, err
	}

	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO clients (name, email, phone, note)
			VALUES (?, ?, ?, ?)
		`, c.Name, c.Email, c.Phone, c.Note)
		if err != nil {
			return store.Wrap("insert client", err)
		}
		c.ID, err = res.LastInsertId()
		return store.Wrap("insert client", err)
	})
	if err != nil {
		return model.Client{}, fmt.Errorf("add client: %w", err)
	}

	slog.Debug("client added", "id", c.ID)
	return c, nil
}

// Get returns the client with the given id.
func (r *Clients) Get(ctx context.Context, id int64) (model.Client, error) {
	return r.GetWith(ctx, r.store.Reader(), id)
}

// GetWith reads the client through q, which may be an open transaction.
func (r *Clients) GetWith(ctx context.Context, q store.Querier, id int64) (model.Client, error) {
	row := q.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Client{}, model.NewNotFoundError("client", id)
	}
	if err != nil {
		return model.Client{}, store.Wrap("get client", err)
	}
	return c, nil
}

// List returns every client ordered by id.
func (r *Clients) List(ctx context.Context) iter.Seq2[model.Client, error] {
	return store.Pages(ctx, r.pageSize, func(c model.Client) int64 { return c.ID }, r.page)
}

func (r *Clients) page(ctx context.Context, after int64, limit int) ([]model.Client, error) {
	return store.QueryPage(ctx, r.store.Reader(), "list clients", `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id > ?
		ORDER BY id ASC
		LIMIT ?
	`, after, limit, scanClient)
}

// Edit overwrites the fields set in p and returns the updated client.
func (r *Clients) Edit(ctx context.Context, id int64, p model.ClientPatch) (model.Client, error) {
	var updated model.Client
	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		current, err := r.GetWith(ctx, tx, id)
		if err != nil {
			return err
		}
		updated = model.NormalizeClient(p.Apply(current))
		if err := model.ValidateClient(updated); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE clients SET name = ?, email = ?, phone = ?, note = ?
			WHERE id = ?
		`, updated.Name, updated.Email, updated.Phone, updated.Note, id)
		return store.Wrap("update client", err)
	})
	if err != nil {
		return model.Client{}, fmt.Errorf("edit client: %w", err)
	}

	slog.Debug("client edited", "id", id)
	return updated, nil
}

// Delete removes the client. Sales that referenced it are kept with their
// client reference cleared.
func (r *Clients) Delete(ctx context.Context, id int64) error {
	var cleared int64
	err := r.store.RunInTx(ctx, func(tx *store.Tx) error {
		if _, err := r.GetWith(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE sales SET client_id = NULL WHERE client_id = ?`, id)
		if err != nil {
			return store.Wrap("clear sale client references", err)
		}
		if cleared, err = res.RowsAffected(); err != nil {
			return store.Wrap("clear sale client references", err)
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
		return store.Wrap("delete client", err)
	})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	slog.Debug("client deleted", "id", id, "sales_cleared", cleared)
	return nil
}

func scanClient(s store.Scanner) (model.Client, error) {
	var c model.Client
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Note); err != nil {
		return model.Client{}, err
	}
	return c, nil
}
