// Package dao provides data access objects for use in the TunaCalc server.
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Calculations() CalculationRepository
	Close() error
}

// UserRepository is storage for server accounts.
type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetAll returns every user ordered by ID.
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// CalculationRepository is storage for evaluated expressions saved by users.
type CalculationRepository interface {
	// Create stores a new Calculation. ID and Created are generated.
	Create(ctx context.Context, calc Calculation) (Calculation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Calculation, error)

	// GetAllByUser returns the user's calculations, oldest first.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Calculation, error)
	Delete(ctx context.Context, id uuid.UUID) (Calculation, error)

	// DeleteAllByUser removes every calculation owned by the user and returns
	// the ones removed.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) ([]Calculation, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "guest":
		return Guest, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'normal', or 'admin'")
	}
}

// User is an account on the server. Password holds the encoded bcrypt hash,
// never the plaintext.
type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Calculation is one successfully evaluated expression. UserID is uuid.Nil
// for calculations that were not made by a logged-in user; those are never
// stored.
type Calculation struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Expression string
	Dialect    string
	Result     int
	Created    time.Time
}
