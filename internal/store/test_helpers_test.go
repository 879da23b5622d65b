package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store backed by a temp file.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertProduct inserts a product row directly and returns its id.
func insertProduct(t *testing.T, s *Store, name string, stock int64) int64 {
	t.Helper()
	res, err := s.db.Exec(`INSERT INTO products (name, price, stock) VALUES (?, '1.00', ?)`, name, stock)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

// insertClient inserts a client row directly and returns its id.
func insertClient(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	res, err := s.db.Exec(`INSERT INTO clients (name) VALUES (?)`, name)
	if err != nil {
		t.Fatalf("insert client: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}
