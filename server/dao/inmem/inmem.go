// Package inmem provides an in-memory implementation of dao.Store. Data is
// lost when the process exits.
package inmem

import (
	"errors"

	"github.com/dekarrin/tunacalc/server/dao"
)

type store struct {
	users *InMemoryUsersRepository
	calcs *InMemoryCalculationsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		calcs: NewCalculationsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Calculations() dao.CalculationRepository {
	return s.calcs
}

func (s *store) Close() error {
	return errors.Join(s.users.Close(), s.calcs.Close())
}
