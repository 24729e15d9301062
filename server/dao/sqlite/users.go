package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

const userColumns = `id, username, password, role, created, modified, last_logout_time, last_login_time`

// UsersDB stores accounts in the users table.
type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

// userRow gives the bind values for every column in userColumns order.
func userRow(u dao.User) []any {
	return []any{
		convertToDB_UUID(u.ID),
		u.Username,
		u.Password,
		convertToDB_Role(u.Role),
		convertToDB_Time(u.Created),
		convertToDB_Time(u.Modified),
		convertToDB_Time(u.LastLogoutTime),
		convertToDB_Time(u.LastLoginTime),
	}
}

func scanUser(sc scanner) (dao.User, error) {
	var user dao.User
	var id, role string
	var created, modified, logout, login int64

	if err := sc.Scan(&id, &user.Username, &user.Password, &role, &created, &modified, &logout, &login); err != nil {
		return user, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &user.ID); err != nil {
		return user, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_Role(role, &user.Role); err != nil {
		return user, fmt.Errorf("stored role %q is invalid: %w", role, err)
	}

	times := []struct {
		col    string
		secs   int64
		target *time.Time
	}{
		{"created", created, &user.Created},
		{"modified", modified, &user.Modified},
		{"last_logout_time", logout, &user.LastLogoutTime},
		{"last_login_time", login, &user.LastLoginTime},
	}
	for _, t := range times {
		if err := convertFromDB_Time(t.secs, t.target); err != nil {
			return user, fmt.Errorf("stored %s %d is invalid: %w", t.col, t.secs, err)
		}
	}

	return user, nil
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	var err error
	user.ID, err = uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	user.Created, user.Modified, user.LastLogoutTime = now, now, now
	user.LastLoginTime = time.Time{}

	_, err = repo.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`, userRow(user)...)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, user.ID)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return all, err
		}
		all = append(all, user)
	}

	return all, wrapDBError(rows.Err())
}

// Update replaces every column of the user with the given id except created.
func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	user.Modified = time.Now()
	row := userRow(user)

	// created (row[4]) is never updated
	res, err := repo.db.ExecContext(ctx, `UPDATE users SET id=?, username=?, password=?, role=?, modified=?, last_logout_time=?, last_login_time=? WHERE id=?;`,
		row[0], row[1], row[2], row[3], row[5], row[6], row[7], convertToDB_UUID(id),
	)
	if err := expectAffected(res, err); err != nil {
		return dao.User{}, err
	}

	return repo.GetByID(ctx, user.ID)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?;`, username))
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?;`, convertToDB_UUID(id)))
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?;`, convertToDB_UUID(id))
	return curVal, expectAffected(res, err)
}

// Close is a no-op; the connection is owned by the store.
func (repo *UsersDB) Close() error {
	return nil
}
