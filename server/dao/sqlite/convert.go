package sqlite

import (
	"fmt"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return err
	}
	*target = r
	return nil
}

// times are stored as unix seconds; the zero time is stored as 0.
func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func convertFromDB_Time(secs int64, target *time.Time) error {
	if secs < 0 {
		return fmt.Errorf("negative timestamp")
	}
	if secs == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(secs, 0)
	return nil
}
