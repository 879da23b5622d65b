package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
)

// Table maps records of type T to CSV rows.
type Table[T any] struct {
	Header []string
	Row    func(T) []string
}

// Write writes the header and then one row per record of seq, comma
// delimited and UTF-8 encoded. It stops at the first error from seq.
func Write[T any](w io.Writer, t Table[T], seq iter.Seq2[T, error]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	n := 0
	for rec, err := range seq {
		if err != nil {
			return fmt.Errorf("read record %d: %w", n+1, err)
		}
		if err := cw.Write(t.Row(rec)); err != nil {
			return fmt.Errorf("write record %d: %w", n+1, err)
		}
		n++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// WriteFile writes the export to path. The data goes to a temporary file in
// the same directory which is renamed over path only once fully written, so
// a failed export leaves any previous file untouched.
func WriteFile[T any](path string, t Table[T], seq iter.Seq2[T, error]) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err := Write(f, t, seq); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
