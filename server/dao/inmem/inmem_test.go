package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_UsersRepository(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	created, err := repo.Create(ctx, dao.User{Username: "alice", Password: "hash", Role: dao.Normal})
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)
	assert.False(created.Created.IsZero())
	assert.True(created.LastLoginTime.IsZero())

	_, err = repo.Create(ctx, dao.User{Username: "alice"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	byName, err := repo.GetByUsername(ctx, "alice")
	assert.NoError(err)
	assert.Equal(created.ID, byName.ID)

	created.Username = "alicia"
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal("alicia", updated.Username)

	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(err, dao.ErrNotFound, "old username must be unindexed after rename")

	_, err = repo.Create(ctx, dao.User{Username: "alice"})
	assert.NoError(err, "old username must be reusable after rename")

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 2)
	assert.True(all[0].ID.String() < all[1].ID.String())

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal("alicia", deleted.Username)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Update(ctx, uuid.New(), dao.User{Username: "nobody"})
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_CalculationsRepository(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewCalculationsRepository()

	owner := uuid.New()
	other := uuid.New()

	first, err := repo.Create(ctx, dao.Calculation{UserID: owner, Expression: "1+1", Dialect: "strict", Result: 2})
	if !assert.NoError(err) {
		return
	}
	second, _ := repo.Create(ctx, dao.Calculation{UserID: owner, Expression: "3!", Dialect: "extended", Result: 6})
	_, _ = repo.Create(ctx, dao.Calculation{UserID: other, Expression: "2*2", Dialect: "strict", Result: 4})

	got, err := repo.GetByID(ctx, second.ID)
	assert.NoError(err)
	assert.Equal(6, got.Result)

	owned, err := repo.GetAllByUser(ctx, owner)
	assert.NoError(err)
	if assert.Len(owned, 2) {
		assert.Equal(first.ID, owned[0].ID)
		assert.Equal(second.ID, owned[1].ID)
	}

	_, err = repo.Delete(ctx, first.ID)
	assert.NoError(err)
	owned, _ = repo.GetAllByUser(ctx, owner)
	assert.Len(owned, 1)

	removed, err := repo.DeleteAllByUser(ctx, owner)
	assert.NoError(err)
	assert.Len(removed, 1)

	owned, _ = repo.GetAllByUser(ctx, owner)
	assert.Empty(owned)

	othersOwned, _ := repo.GetAllByUser(ctx, other)
	assert.Len(othersOwned, 1, "other users' calculations must survive")

	_, err = repo.GetByID(ctx, second.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_NewDatastore(t *testing.T) {
	assert := assert.New(t)

	st := NewDatastore()
	assert.NotNil(st.Users())
	assert.NotNil(st.Calculations())
	assert.NoError(st.Close())
}
