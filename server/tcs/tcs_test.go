package tcs

import (
	"context"
	"errors"
	"testing"

	"github.com/dekarrin/tunacalc/internal/expr"
	"github.com/dekarrin/tunacalc/internal/tcerrors"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/dao/inmem"
	"github.com/dekarrin/tunacalc/server/dao/sqlite"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() Service {
	return Service{
		DB:           inmem.NewDatastore(),
		PasswordCost: bcrypt.MinCost,
	}
}

func Test_Service_Calculate(t *testing.T) {
	testCases := []struct {
		name          string
		expression    string
		dialect       string
		expectResult  int
		expectDialect string
		expectErrIs   []error
	}{
		{name: "default dialect is strict", expression: "(2+3)*4", expectResult: 20, expectDialect: "strict"},
		{name: "explicit extended", expression: "3!*2", dialect: "EXTENDED", expectResult: 12, expectDialect: "extended"},
		{name: "strict rejects leading postfix", expression: "3!*2", dialect: "strict", expectErrIs: []error{serr.ErrEvaluation, expr.ErrTrailingInput}},
		{name: "division by zero", expression: "5/0", expectErrIs: []error{serr.ErrEvaluation, expr.ErrDivideByZero, expr.ErrArithmetic}},
		{name: "lex failure", expression: "2 & 3", expectErrIs: []error{serr.ErrEvaluation}},
		{name: "unknown dialect", expression: "1", dialect: "loose", expectErrIs: []error{serr.ErrBadArgument}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()

			actual, err := svc.Calculate(context.Background(), tc.expression, tc.dialect, uuid.Nil)
			if tc.expectErrIs != nil {
				for _, target := range tc.expectErrIs {
					assert.ErrorIs(err, target)
				}
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectResult, actual.Result)
			assert.Equal(tc.expectDialect, actual.Dialect)
			assert.Equal(uuid.Nil, actual.ID, "anonymous calculation must not be stored")
		})
	}
}

func Test_Service_Calculate_diagnostic(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()

	_, err := svc.Calculate(context.Background(), "1/0", "", uuid.Nil)

	assert.Equal("1/0\n ^\narithmetic error: around line 1, char 2: division by zero", tcerrors.Message(err))
}

func Test_Service_Calculate_maxDepth(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	svc.MaxDepth = 2

	_, err := svc.Calculate(context.Background(), "((1))", "", uuid.Nil)
	assert.NoError(err)

	_, err = svc.Calculate(context.Background(), "(((1)))", "", uuid.Nil)
	assert.ErrorIs(err, expr.ErrTooDeep)
}

func Test_Service_calculationHistory(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.CreateUser(ctx, "gina", "secret", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	first, err := svc.Calculate(ctx, "2+2", "", user.ID)
	assert.NoError(err)
	assert.NotEqual(uuid.Nil, first.ID)

	_, err = svc.Calculate(ctx, "2/0", "", user.ID)
	assert.Error(err)

	_, err = svc.Calculate(ctx, "sqr 3", "extended", user.ID)
	assert.NoError(err)

	calcs, err := svc.GetUserCalculations(ctx, user.ID)
	assert.NoError(err)
	if assert.Len(calcs, 2, "failed evaluations are not stored") {
		assert.Equal(4, calcs[0].Result)
		assert.Equal(9, calcs[1].Result)
	}

	got, err := svc.GetCalculation(ctx, first.ID.String())
	assert.NoError(err)
	assert.Equal("2+2", got.Expression)

	_, err = svc.GetCalculation(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)

	_, err = svc.DeleteCalculation(ctx, first.ID.String())
	assert.NoError(err)
	_, err = svc.DeleteCalculation(ctx, first.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)

	_, err = svc.DeleteUser(ctx, user.ID.String())
	assert.NoError(err)
	calcs, _ = svc.GetUserCalculations(ctx, user.ID)
	assert.Empty(calcs, "deleting a user removes their calculations")
}

func Test_Service_users(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.CreateUser(ctx, "", "pw", dao.Normal)
	assert.ErrorIs(err, serr.ErrBadArgument)
	_, err = svc.CreateUser(ctx, "hank", "", dao.Normal)
	assert.ErrorIs(err, serr.ErrBadArgument)

	user, err := svc.CreateUser(ctx, "hank", "pw", dao.Normal)
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual("pw", user.Password, "password must be stored hashed")

	_, err = svc.CreateUser(ctx, "hank", "pw2", dao.Normal)
	assert.ErrorIs(err, serr.ErrAlreadyExists)

	got, err := svc.GetUser(ctx, user.ID.String())
	assert.NoError(err)
	assert.Equal("hank", got.Username)

	got, err = svc.GetUserByUsername(ctx, "hank")
	assert.NoError(err)
	assert.Equal(user.ID, got.ID)

	all, err := svc.GetAllUsers(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = svc.GetUser(ctx, uuid.New().String())
	assert.ErrorIs(err, serr.ErrNotFound)

	_, err = svc.DeleteUser(ctx, uuid.New().String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_LoginLogout(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	created, err := svc.CreateUser(ctx, "ivy", "hunter2", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	_, err = svc.Login(ctx, "ivy", "wrong")
	assert.ErrorIs(err, serr.ErrBadCredentials)
	_, err = svc.Login(ctx, "nobody", "hunter2")
	assert.ErrorIs(err, serr.ErrBadCredentials)

	loggedIn, err := svc.Login(ctx, "ivy", "hunter2")
	assert.NoError(err)
	assert.False(loggedIn.LastLoginTime.IsZero())

	loggedOut, err := svc.Logout(ctx, created.ID)
	assert.NoError(err)
	assert.True(loggedOut.LastLogoutTime.Unix() > created.LastLogoutTime.Unix(), "logout must move the logout time forward")

	_, err = svc.Logout(ctx, uuid.New())
	assert.True(errors.Is(err, serr.ErrNotFound))
}

// staleUsers reports every username as free, the way a concurrent create
// would see it before the other insert commits.
type staleUsers struct {
	dao.UserRepository
}

func (staleUsers) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	return dao.User{}, dao.ErrNotFound
}

type staleStore struct {
	dao.Store
}

func (s staleStore) Users() dao.UserRepository {
	return staleUsers{s.Store.Users()}
}

func Test_Service_CreateUser_duplicateAtInsert(t *testing.T) {
	testCases := []struct {
		name  string
		store func(t *testing.T) dao.Store
	}{
		{name: "inmem", store: func(t *testing.T) dao.Store { return inmem.NewDatastore() }},
		{name: "sqlite", store: func(t *testing.T) dao.Store {
			st, err := sqlite.NewDatastore(t.TempDir())
			if err != nil {
				t.Fatalf("create store: %v", err)
			}
			return st
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()

			st := tc.store(t)
			defer st.Close()
			svc := Service{DB: staleStore{st}, PasswordCost: bcrypt.MinCost}

			_, err := svc.CreateUser(ctx, "jo", "pw", dao.Normal)
			if !assert.NoError(err) {
				return
			}

			_, err = svc.CreateUser(ctx, "jo", "pw2", dao.Normal)
			assert.ErrorIs(err, serr.ErrAlreadyExists)
			assert.NotErrorIs(err, serr.ErrDB)
		})
	}
}
