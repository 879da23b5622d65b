package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/gestion/internal/model"
)

// Wrap annotates err with op. Errors meaning the database cannot be used
// become STORAGE_UNAVAILABLE; *model.Error values pass through unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var me *model.Error
	if errors.As(err, &me) {
		return err
	}
	if Unavailable(err) {
		return model.NewStorageUnavailableError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Unavailable reports whether err means the database cannot currently be
// read or written, as opposed to a bad statement or constraint violation.
func Unavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy,
			sqlite3.ErrLocked,
			sqlite3.ErrCantOpen,
			sqlite3.ErrPerm,
			sqlite3.ErrReadonly,
			sqlite3.ErrIoErr,
			sqlite3.ErrFull,
			sqlite3.ErrNotADB,
			sqlite3.ErrCorrupt:
			return true
		}
		return false
	}
	// database/sql does not export the closed-handle error.
	return strings.Contains(err.Error(), "sql: database is closed")
}

// IsConstraint reports whether err is a SQLite constraint violation.
func IsConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
