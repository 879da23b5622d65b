package cli

import (
	"log/slog"

	"github.com/roach88/gestion/internal/registry"
	"github.com/roach88/gestion/internal/sales"
	"github.com/roach88/gestion/internal/store"
)

// App is the opened store with the registries and sales engine over it.
// One App serves a whole invocation, including every line of a shell session.
type App struct {
	Store    *store.Store
	Clients  *registry.Clients
	Products *registry.Products
	Sales    *sales.Engine
}

// OpenApp opens the database at path and wires the components over it.
func OpenApp(path string, pageSize int, clock sales.Clock) (*App, error) {
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	clients := registry.NewClients(st, pageSize)
	products := registry.NewProducts(st, pageSize)
	opts := []sales.Option{sales.WithPageSize(pageSize)}
	if clock != nil {
		opts = append(opts, sales.WithClock(clock))
	}

	return &App{
		Store:    st,
		Clients:  clients,
		Products: products,
		Sales:    sales.NewEngine(st, clients, products, opts...),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}
