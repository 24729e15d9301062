package server

import (
	"testing"

	"github.com/dekarrin/tunacalc/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "inmem any case", input: " InMem ", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with dir", input: "sqlite:/var/tunacalc", expect: Database{Type: DatabaseSQLite, DataDir: "/var/tunacalc"}},
		{name: "sqlite keeps later colons", input: "sqlite:C:/data", expect: Database{Type: DatabaseSQLite, DataDir: "C:/data"}},
		{name: "inmem with params", input: "inmem:foo", expectErr: true},
		{name: "sqlite without dir", input: "sqlite", expectErr: true},
		{name: "none", input: "none", expectErr: true},
		{name: "unknown engine", input: "postgres:db", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_PadSecret(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectLen int
	}{
		{name: "empty stays empty", input: "", expectLen: 0},
		{name: "short is repeated", input: "abc", expectLen: 33},
		{name: "exact size untouched", input: "0123456789abcdef0123456789abcdef", expectLen: 32},
		{name: "long untouched", input: "0123456789abcdef0123456789abcdef0123456789", expectLen: 42},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := PadSecret([]byte(tc.input))

			assert.Len(actual, tc.expectLen)
			if tc.input != "" {
				assert.Equal(tc.input, string(actual[:len(tc.input)]))
			}
		})
	}
}

func Test_ConfigFrom(t *testing.T) {
	assert := assert.New(t)

	shared := config.Config{}.FillDefaults()
	shared.Server.Secret = "hunter2"
	shared.Server.UnauthDelayMillis = -1

	cfg, err := ConfigFrom(shared)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(Database{Type: DatabaseInMemory}, cfg.DB)
	assert.Len(cfg.TokenSecret, 35)
	assert.Equal(shared.Eval.MaxDepth, cfg.MaxDepth)
	assert.Zero(cfg.UnauthDelay())
	assert.NoError(cfg.Validate())

	shared.Server.DB = "sqlite"
	_, err = ConfigFrom(shared)
	assert.Error(err)
}

func Test_Config_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{name: "valid inmem", cfg: Config{TokenSecret: make([]byte, 32), DB: Database{Type: DatabaseInMemory}}},
		{name: "secret too short", cfg: Config{TokenSecret: make([]byte, 31), DB: Database{Type: DatabaseInMemory}}, expectErr: true},
		{name: "secret too long", cfg: Config{TokenSecret: make([]byte, 65), DB: Database{Type: DatabaseInMemory}}, expectErr: true},
		{name: "sqlite without dir", cfg: Config{TokenSecret: make([]byte, 64), DB: Database{Type: DatabaseSQLite}}, expectErr: true},
		{name: "no DB", cfg: Config{TokenSecret: make([]byte, 64)}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
