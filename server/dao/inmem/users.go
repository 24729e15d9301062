package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/tunacalc/internal/util"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
)

func NewUsersRepository() *InMemoryUsersRepository {
	return &InMemoryUsersRepository{
		users:           make(map[uuid.UUID]dao.User),
		byUsernameIndex: make(map[string]uuid.UUID),
	}
}

type InMemoryUsersRepository struct {
	mtx             sync.RWMutex
	users           map[uuid.UUID]dao.User
	byUsernameIndex map[string]uuid.UUID
}

func (imur *InMemoryUsersRepository) Close() error {
	return nil
}

func (imur *InMemoryUsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imur.mtx.Lock()
	defer imur.mtx.Unlock()

	if _, ok := imur.byUsernameIndex[user.Username]; ok {
		return dao.User{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	user.ID = newUUID
	user.Created = now
	user.Modified = now
	user.LastLogoutTime = now
	user.LastLoginTime = time.Time{}

	imur.users[user.ID] = user
	imur.byUsernameIndex[user.Username] = user.ID

	return user, nil
}

func (imur *InMemoryUsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	imur.mtx.RLock()
	defer imur.mtx.RUnlock()

	all := make([]dao.User, 0, len(imur.users))
	for k := range imur.users {
		all = append(all, imur.users[k])
	}

	return util.SortBy(all, func(l, r dao.User) bool {
		return l.ID.String() < r.ID.String()
	}), nil
}

func (imur *InMemoryUsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	imur.mtx.Lock()
	defer imur.mtx.Unlock()

	existing, ok := imur.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	// inmem does not enforce foreign keys, only uniqueness within users
	if user.Username != existing.Username {
		if _, ok := imur.byUsernameIndex[user.Username]; ok {
			return dao.User{}, dao.ErrConstraintViolation
		}
	}
	if user.ID != id {
		if _, ok := imur.users[user.ID]; ok {
			return dao.User{}, dao.ErrConstraintViolation
		}
	}

	user.Created = existing.Created
	user.Modified = time.Now()

	delete(imur.byUsernameIndex, existing.Username)
	delete(imur.users, id)
	imur.users[user.ID] = user
	imur.byUsernameIndex[user.Username] = user.ID

	return user, nil
}

func (imur *InMemoryUsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	imur.mtx.RLock()
	defer imur.mtx.RUnlock()

	user, ok := imur.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	return user, nil
}

func (imur *InMemoryUsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	imur.mtx.RLock()
	defer imur.mtx.RUnlock()

	userID, ok := imur.byUsernameIndex[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	return imur.users[userID], nil
}

func (imur *InMemoryUsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	imur.mtx.Lock()
	defer imur.mtx.Unlock()

	user, ok := imur.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	delete(imur.byUsernameIndex, user.Username)
	delete(imur.users, user.ID)

	return user, nil
}
