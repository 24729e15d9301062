// Package server provides the TunaCalc REST server, which evaluates
// expressions for clients and keeps a history of calculations for each user.
//
// The API is mounted under /api/v1:
//
//	POST   /login              - accepts user and password and returns a JWT.
//	DELETE /login/{id}         - logs the user out, invalidating their JWTs.
//	POST   /tokens             - refreshes the token (requires auth).
//	GET    /users              - get all users (admin only).
//	POST   /users              - create a new user account (admin only).
//	GET    /users/{id}         - get info on a user (self or admin).
//	DELETE /users/{id}         - delete a user and their calculations.
//	POST   /calculations       - evaluate an expression (auth optional).
//	GET    /calculations       - the logged-in user's saved calculations.
//	GET    /calculations/{id}  - get one saved calculation (owner or admin).
//	DELETE /calculations/{id}  - delete one saved calculation (owner or admin).
//	GET    /info               - get version info on the server and engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/tunacalc/server/api"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/dekarrin/tunacalc/server/tcs"
)

// TunaCalcServer is an HTTP REST server that evaluates expressions. The
// zero-value of a TunaCalcServer should not be used directly; call New() to
// get one ready for use.
type TunaCalcServer struct {
	api    api.API
	router http.Handler
}

// New creates a new TunaCalcServer from the given config, connecting to its
// database.
func New(cfg Config) (*TunaCalcServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	a := api.API{
		Backend: tcs.Service{
			DB:           db,
			MaxDepth:     cfg.MaxDepth,
			PasswordCost: cfg.PasswordCost,
		},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	return &TunaCalcServer{
		api:    a,
		router: newRouter(a),
	}, nil
}

// Handler returns the root handler of the server.
func (svr *TunaCalcServer) Handler() http.Handler {
	return svr.router
}

// Service returns the backend the server's API calls into.
func (svr *TunaCalcServer) Service() tcs.Service {
	return svr.api.Backend
}

// EnsureUser creates a user with the given credentials if there is no user
// with that username yet. It returns the user with that username and whether
// it was newly created.
func (svr *TunaCalcServer) EnsureUser(ctx context.Context, username, password string, role dao.Role) (dao.User, bool, error) {
	existing, err := svr.api.Backend.GetUserByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	} else if !errors.Is(err, serr.ErrNotFound) {
		return dao.User{}, false, err
	}

	created, err := svr.api.Backend.CreateUser(ctx, username, password, role)
	if err != nil {
		return dao.User{}, false, err
	}
	return created, true, nil
}

// ServeForever begins listening on the given address for HTTP REST client
// requests. It only returns if the server stops.
func (svr *TunaCalcServer) ServeForever(address string) error {
	log.Printf("INFO  Listening on %s", address)
	return http.ListenAndServe(address, svr.router)
}

// Close releases the server's database connection.
func (svr *TunaCalcServer) Close() error {
	return svr.api.Backend.DB.Close()
}
