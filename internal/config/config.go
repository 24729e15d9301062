// Package config loads the settings shared by the TunaCalc console and server
// from a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunacalc/internal/expr"
)

// Environment variables that override values read from a config file.
const (
	EnvListenAddress = "TUNACALC_LISTEN_ADDRESS"
	EnvTokenSecret   = "TUNACALC_TOKEN_SECRET"
	EnvDatabase      = "TUNACALC_DATABASE"
)

// Defaults applied by FillDefaults.
const (
	DefaultWidth             = 80
	DefaultListen            = "localhost:8080"
	DefaultDB                = "inmem"
	DefaultUnauthDelayMillis = 1000
)

// Config is the full set of TunaCalc settings.
type Config struct {
	Eval    Eval    `toml:"eval"`
	Console Console `toml:"console"`
	Server  Server  `toml:"server"`
}

// Eval holds settings for the expression evaluator.
type Eval struct {
	// Dialect is the name of the grammar to evaluate with, "strict" or
	// "extended".
	Dialect string `toml:"dialect"`

	// MaxDepth is the deepest that parenthesized groups may be nested.
	MaxDepth int `toml:"max_depth"`
}

// Console holds settings for the interactive console.
type Console struct {
	// Width is the column width that console output is wrapped to.
	Width int `toml:"width"`

	// HistoryFile is the path to a history file that is loaded when the
	// console starts and saved when it quits. If empty, history is not
	// persisted.
	HistoryFile string `toml:"history_file"`
}

// Server holds settings for the REST server.
type Server struct {
	// Listen is the address to listen on, in "host:port" form.
	Listen string `toml:"listen"`

	// Secret is the secret used to sign tokens.
	Secret string `toml:"secret"`

	// DB is the database connection string, "inmem" or "sqlite:DIR".
	DB string `toml:"db"`

	// UnauthDelayMillis is the delay added before responses that reject a
	// client's credentials. Negative disables the delay.
	UnauthDelayMillis int `toml:"unauth_delay_ms"`
}

// Load reads the TOML config file at path. Keys that are not recognized cause
// an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML config data. Keys that are not recognized cause an error.
func Parse(data []byte) (Config, error) {
	var cfg Config

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i := range undecoded {
			keys[i] = undecoded[i].String()
		}
		return Config{}, fmt.Errorf("unknown key(s): %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// WithEnv returns a copy of cfg with values replaced by any that are set in
// the environment.
func (cfg Config) WithEnv() Config {
	newCFG := cfg

	if v, ok := os.LookupEnv(EnvListenAddress); ok {
		newCFG.Server.Listen = v
	}
	if v, ok := os.LookupEnv(EnvTokenSecret); ok {
		newCFG.Server.Secret = v
	}
	if v, ok := os.LookupEnv(EnvDatabase); ok {
		newCFG.Server.DB = v
	}

	return newCFG
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults. The server secret is not given a default here; the
// server supplies its own.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.Eval.Dialect == "" {
		newCFG.Eval.Dialect = expr.Strict.String()
	}
	if newCFG.Eval.MaxDepth == 0 {
		newCFG.Eval.MaxDepth = expr.DefaultMaxDepth
	}
	if newCFG.Console.Width == 0 {
		newCFG.Console.Width = DefaultWidth
	}
	if newCFG.Server.Listen == "" {
		newCFG.Server.Listen = DefaultListen
	}
	if newCFG.Server.DB == "" {
		newCFG.Server.DB = DefaultDB
	}
	if newCFG.Server.UnauthDelayMillis == 0 {
		newCFG.Server.UnauthDelayMillis = DefaultUnauthDelayMillis
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if _, err := expr.ParseDialect(cfg.Eval.Dialect); err != nil {
		return fmt.Errorf("eval: dialect: %w", err)
	}
	if cfg.Eval.MaxDepth < 1 {
		return fmt.Errorf("eval: max_depth: must be at least 1, but is %d", cfg.Eval.MaxDepth)
	}
	if cfg.Console.Width < 20 {
		return fmt.Errorf("console: width: must be at least 20, but is %d", cfg.Console.Width)
	}
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server: listen: must not be empty")
	}
	if cfg.Server.DB == "" {
		return fmt.Errorf("server: db: must not be empty")
	}

	return nil
}

// Evaluator returns an expression evaluator configured by the [eval] section.
func (e Eval) Evaluator() (expr.Evaluator, error) {
	d, err := expr.ParseDialect(e.Dialect)
	if err != nil {
		return expr.Evaluator{}, err
	}
	return expr.Evaluator{Dialect: d, MaxDepth: e.MaxDepth}, nil
}
