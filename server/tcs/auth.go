package tcs

import (
	"context"
	"errors"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
)

// Login verifies the provided username and password against the existing user
// in persistence and returns that user if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not match
// a user or if the password is incorrect, it will match ErrBadCredentials. If
// the error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	if err := checkPassword(user.Password, password); err != nil {
		return dao.User{}, err
	}

	user.LastLoginTime = time.Now()
	user, err = svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("cannot update user login time", err)
	}

	return user, nil
}

// Logout marks the user with the given ID as having logged out, invalidating
// every token issued to them. Returns the user entity that was logged out.
//
// The returned error, if non-nil, will match serr.ErrNotFound if the user
// doesn't exist and serr.ErrDB if there was an unexpected problem with the DB.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	existing, err := svc.DB.Users().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrNotFound
		}
		return dao.User{}, serr.WrapDB("could not retrieve user", err)
	}

	// tokens embed the logout time at second precision, so make sure it moves
	// even for a logout in the same second as the last one
	now := time.Now()
	if now.Unix() <= existing.LastLogoutTime.Unix() {
		now = existing.LastLogoutTime.Add(time.Second)
	}
	existing.LastLogoutTime = now

	updated, err := svc.DB.Users().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not update user", err)
	}

	return updated, nil
}
