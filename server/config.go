package server

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/tunacalc/internal/config"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/dao/inmem"
	"github.com/dekarrin/tunacalc/server/dao/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType

	// DataDir is the path on disk to a directory to use to store data in. This
	// is only applicable for DatabaseSQLite.
	DataDir string
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the store for use.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if err := os.MkdirAll(db.DataDir, 0770); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}

		store, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}

		return store, nil
	default:
		return nil, fmt.Errorf("cannot connect to %q DB", db.Type.String())
	}
}

// ParseDBConnString parses a database connection string of the form
// "engine:params" (or just "engine" if no other params are required) into a
// valid Database config object. For example, "sqlite:/data" would give the DB
// type of DatabaseSQLite that stores persistence in files located in the given
// dir, and "inmem" would give the DB type of DatabaseInMemory.
func ParseDBConnString(s string) (Database, error) {
	engine, paramStr, _ := strings.Cut(s, ":")
	engine = strings.ToLower(strings.TrimSpace(engine))
	paramStr = strings.TrimSpace(paramStr)

	switch DBType(engine) {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}
		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	case DatabaseNone:
		return Database{}, fmt.Errorf("cannot specify DB engine 'none' (perhaps you wanted 'inmem'?)")
	default:
		return Database{}, fmt.Errorf("DB engine not one of 'sqlite' or 'inmem': %q", engine)
	}
}

// PadSecret repeats secret until it is at least MinSecretSize bytes. An empty
// secret is returned unchanged.
func PadSecret(secret []byte) []byte {
	if len(secret) == 0 {
		return secret
	}
	padded := secret
	for len(padded) < MinSecretSize {
		padded = append(padded[:len(padded):len(padded)], secret...)
	}
	return padded
}

// GenerateSecret returns a random secret of MaxSecretSize bytes.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, MaxSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	return secret, nil
}

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a TunaCalcServer.
type Config struct {

	// TokenSecret is the secret used for signing tokens.
	TokenSecret []byte

	// DB is the configuration to use for connecting to the database.
	DB Database

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. Set this to any negative number to disable
	// the delay.
	UnauthDelayMillis int

	// MaxDepth is the nesting limit of evaluated expressions.
	MaxDepth int

	// PasswordCost is the bcrypt cost of stored password hashes. If not set,
	// tcs.DefaultPasswordCost is used.
	PasswordCost int
}

// ConfigFrom builds a server Config from the shared TunaCalc config, which
// must already be validated. The secret is padded; if none is set, the
// returned Config has a nil TokenSecret and the caller must supply one.
func ConfigFrom(c config.Config) (Config, error) {
	db, err := ParseDBConnString(c.Server.DB)
	if err != nil {
		return Config{}, fmt.Errorf("db: %w", err)
	}

	cfg := Config{
		DB:                db,
		UnauthDelayMillis: c.Server.UnauthDelayMillis,
		MaxDepth:          c.Eval.MaxDepth,
	}
	if c.Server.Secret != "" {
		cfg.TokenSecret = PadSecret([]byte(c.Server.Secret))
	}

	return cfg, nil
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMillis is set to a number less than 1, this
// will return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// Validate returns an error if the Config has invalid field values set.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	switch cfg.DB.Type {
	case DatabaseInMemory:
	case DatabaseSQLite:
		if cfg.DB.DataDir == "" {
			return fmt.Errorf("db: DataDir not set to path")
		}
	default:
		return fmt.Errorf("db: unknown database type: %q", cfg.DB.Type.String())
	}

	return nil
}
