// Package tcs has services for interacting with the TunaCalc server backend
// decoupled from the API that accesses it.
package tcs

import (
	"encoding/base64"
	"errors"

	"github.com/dekarrin/tunacalc/internal/expr"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used when Service.PasswordCost is
// not set.
const DefaultPasswordCost = 14

// Service is a service for interacting with and modifying the TunaCalc server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// MaxDepth is the nesting limit given to every evaluation. If not set,
	// expr.DefaultMaxDepth is used.
	MaxDepth int

	// PasswordCost is the bcrypt cost of new password hashes. If not set,
	// DefaultPasswordCost is used.
	PasswordCost int
}

func (svc Service) passwordCost() int {
	if svc.PasswordCost < bcrypt.MinCost {
		return DefaultPasswordCost
	}
	return svc.PasswordCost
}

func (svc Service) evaluator(d expr.Dialect) expr.Evaluator {
	return expr.Evaluator{Dialect: d, MaxDepth: svc.MaxDepth}
}

// hashPassword gives the stored form of password: its bcrypt hash in base64.
func (svc Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), svc.passwordCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return "", serr.New("password could not be encrypted", err)
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

// checkPassword reports a serr.ErrBadCredentials error if password does not
// match the stored hash.
func checkPassword(stored, password string) error {
	hash, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return serr.New("stored password hash is not valid", err)
	}

	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return serr.ErrBadCredentials
		}
		return serr.New("could not compare password", err)
	}
	return nil
}
