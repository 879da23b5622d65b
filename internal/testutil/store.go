package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/gestion/internal/store"
)

// NewStore opens a store on a fresh temp file and closes it when the test
// ends.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "gestion.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
