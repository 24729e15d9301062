package tcs

import (
	"context"
	"errors"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
)

// userNotFoundOr converts a repository error into the service error for it.
func userNotFoundOr(msg string, err error) error {
	if errors.Is(err, dao.ErrNotFound) {
		return serr.ErrNotFound
	}
	return serr.WrapDB(msg, err)
}

// lookupUser parses id and retrieves that user.
func (svc Service) lookupUser(ctx context.Context, id string) (dao.User, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	user, err := svc.DB.Users().GetByID(ctx, uuidID)
	if err != nil {
		return dao.User{}, userNotFoundOr("could not get user", err)
	}
	return user, nil
}

// GetAllUsers returns all users currently in persistence.
func (svc Service) GetAllUsers(ctx context.Context) ([]dao.User, error) {
	users, err := svc.DB.Users().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return users, nil
}

// GetUser returns the user with the given ID. The error matches
// serr.ErrNotFound, serr.ErrBadArgument, or serr.ErrDB.
func (svc Service) GetUser(ctx context.Context, id string) (dao.User, error) {
	return svc.lookupUser(ctx, id)
}

// GetUserByUsername returns the user with the given username.
func (svc Service) GetUserByUsername(ctx context.Context, username string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		return dao.User{}, userNotFoundOr("could not get user", err)
	}
	return user, nil
}

// CreateUser stores a new user with a hash of password. A taken username gives
// an error matching serr.ErrAlreadyExists, and blank arguments one matching
// serr.ErrBadArgument.
func (svc Service) CreateUser(ctx context.Context, username, password string, role dao.Role) (dao.User, error) {
	if username == "" {
		return dao.User{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	if _, err := svc.DB.Users().GetByUsername(ctx, username); err == nil {
		return dao.User{}, serr.New("a user with that username already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.User{}, serr.WrapDB("", err)
	}

	hash, err := svc.hashPassword(password)
	if err != nil {
		return dao.User{}, err
	}

	user, err := svc.DB.Users().Create(ctx, dao.User{Username: username, Password: hash, Role: role})
	if err != nil {
		// lost a race with another create of the same name
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.User{}, serr.New("a user with that username already exists", err, serr.ErrAlreadyExists)
		}
		return dao.User{}, serr.WrapDB("could not create user", err)
	}

	return user, nil
}

// DeleteUser deletes the user with the given ID along with every calculation
// they saved, and returns the user as it was just before deletion.
func (svc Service) DeleteUser(ctx context.Context, id string) (dao.User, error) {
	user, err := svc.lookupUser(ctx, id)
	if err != nil {
		return dao.User{}, err
	}

	// calculations go first so a failure never leaves them orphaned
	if _, err := svc.DB.Calculations().DeleteAllByUser(ctx, user.ID); err != nil {
		return dao.User{}, serr.WrapDB("could not delete user calculations", err)
	}

	if _, err := svc.DB.Users().Delete(ctx, user.ID); err != nil {
		return dao.User{}, userNotFoundOr("could not delete user", err)
	}

	return user, nil
}
