package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

const calcColumns = `id, user_id, expression, dialect, result, created`

// CalculationsDB stores saved calculations in the calculations table.
type CalculationsDB struct {
	db *sql.DB
}

func (repo *CalculationsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS calculations (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE,
		expression TEXT NOT NULL,
		dialect TEXT NOT NULL,
		result INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func scanCalculation(sc scanner) (dao.Calculation, error) {
	var calc dao.Calculation
	var id, userID string
	var result, created int64

	err := sc.Scan(&id, &userID, &calc.Expression, &calc.Dialect, &result, &created)
	if err != nil {
		return calc, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &calc.ID); err != nil {
		return calc, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(userID, &calc.UserID); err != nil {
		return calc, fmt.Errorf("stored user UUID %q is invalid: %w", userID, err)
	}
	if err := convertFromDB_Time(created, &calc.Created); err != nil {
		return calc, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}
	calc.Result = int(result)

	return calc, nil
}

func (repo *CalculationsDB) Create(ctx context.Context, calc dao.Calculation) (dao.Calculation, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Calculation{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, `INSERT INTO calculations (`+calcColumns+`) VALUES (?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(calc.UserID),
		calc.Expression,
		calc.Dialect,
		int64(calc.Result),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Calculation{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *CalculationsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Calculation, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+calcColumns+` FROM calculations WHERE id = ?;`, convertToDB_UUID(id))
	return scanCalculation(row)
}

func (repo *CalculationsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Calculation, error) {
	// created has only second precision so rowid breaks ties in insert order
	rows, err := repo.db.QueryContext(ctx, `SELECT `+calcColumns+` FROM calculations WHERE user_id = ? ORDER BY created, rowid;`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []dao.Calculation{}
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return all, err
		}
		all = append(all, calc)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *CalculationsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Calculation, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?;`, convertToDB_UUID(id))
	return curVal, expectAffected(res, err)
}

func (repo *CalculationsDB) DeleteAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Calculation, error) {
	removed, err := repo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = repo.db.ExecContext(ctx, `DELETE FROM calculations WHERE user_id = ?;`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}

	return removed, nil
}

// Close is a no-op; the connection is owned by the store.
func (repo *CalculationsDB) Close() error {
	return nil
}
