// Package middle contains middleware for use with the TunaCalc server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthUser
)

// AuthHandler is middleware that will accept a request, extract the token used
// for authentication, and make calls to get a User entity that represents the
// logged in user from the token.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthUser will contain the logged-in user, and
// AuthLoggedIn will return whether the user is logged in (only applies for
// optional logins; for non-optional, not being logged in will result in an
// HTTP error being returned before the request is passed to the next handler).
type AuthHandler struct {
	db            dao.UserRepository
	secret        []byte
	required      bool
	defaultUser   dao.User
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	user := ah.defaultUser

	tok, err := token.Get(req)
	if err == nil {
		var lookupUser dao.User
		lookupUser, err = token.Validate(req.Context(), tok, ah.secret, ah.db)
		if err == nil {
			user = lookupUser
			loggedIn = true
		}
	}

	// a missing or invalid token is only a problem when auth is required; a
	// bad token on an optional route is treated as no token at all
	if err != nil && ah.required {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns middleware that rejects requests without a valid token
// with an HTTP-401 after sleeping for unauthDelay.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth returns middleware that lets every request through, setting
// AuthUser to defaultUser when no valid token is given.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			defaultUser:   defaultUser,
			required:      false,
			next:          next,
		}
	}
}

// User returns the user stored in ctx by an AuthHandler and whether that user
// is logged in.
func User(ctx context.Context) (dao.User, bool) {
	user, _ := ctx.Value(AuthUser).(dao.User)
	loggedIn, _ := ctx.Value(AuthLoggedIn).(bool)
	return user, loggedIn
}
