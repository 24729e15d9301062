// Package sqlite provides a dao.Store backed by a SQLite database file using
// the pure-go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/tunacalc/server/dao"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBFilename is the name of the database file created in the storage
// directory.
const DBFilename = "data.db"

type store struct {
	dbFilename string
	db         *sql.DB

	users *UsersDB
	calcs *CalculationsDB
}

// NewDatastore opens (creating if needed) the database in storageDir and
// ensures all tables exist.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: DBFilename}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	// foreign keys are off by default in sqlite and apply per-connection
	st.db.SetMaxOpenConns(1)
	if _, err := st.db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		st.db.Close()
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("init users table: %w", err)
	}

	st.calcs = &CalculationsDB{db: st.db}
	if err := st.calcs.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("init calculations table: %w", err)
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Calculations() dao.CalculationRepository {
	return s.calcs
}

// Close closes the shared connection. The individual repositories do not own
// it.
func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

// expectAffected checks the outcome of a statement that must change at least
// one row.
func expectAffected(res sql.Result, err error) error {
	if err != nil {
		return wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.ErrNotFound
	}
	return nil
}

// wrapDBError maps driver errors onto the dao sentinels. The driver reports
// extended result codes, so only the low byte is compared against the
// primary SQLITE_CONSTRAINT code.
func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%w: %s", dao.ErrConstraintViolation, sqliteErr.Error())
		}
		return fmt.Errorf("sqlite: %w", err)
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
