package server

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLoadConfig(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	conf, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf, "missing file gives defaults")

	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0755))
	partial := "log_level = \"main:debug,*:error\"\ndb_backend = \"memdb\"\n"
	require.NoError(t, ioutil.WriteFile(configPath(home), []byte(partial), 0644))

	conf, err = LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "main:debug,*:error", conf.LogLevel)
	assert.Equal(t, BackendMemDB, conf.DBBackend)
	assert.Equal(t, DefaultConfig().Bind, conf.Bind)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Config)
		wantErr *errors.Error
	}{
		"default is valid": {
			mutate: func(*Config) {},
		},
		"missing bind": {
			mutate:  func(c *Config) { c.Bind = "" },
			wantErr: errors.ErrEmpty,
		},
		"unknown log level": {
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: errors.ErrInput,
		},
		"module filter": {
			mutate: func(c *Config) { c.LogLevel = "main:info,state:debug,*:error" },
		},
		"module without level": {
			mutate:  func(c *Config) { c.LogLevel = "main,*:error" },
			wantErr: errors.ErrInput,
		},
		"unknown module level": {
			mutate:  func(c *Config) { c.LogLevel = "state:loud" },
			wantErr: errors.ErrInput,
		},
		"unknown backend": {
			mutate:  func(c *Config) { c.DBBackend = "cleveldb" },
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			conf := DefaultConfig()
			tc.mutate(&conf)
			err := conf.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := DefaultConfig()
	conf.LogLevel = "escrow:debug,*:error"
	logger, err := conf.Logger(log.NewTMLogger(&buf))
	require.NoError(t, err)

	logger.With("module", "escrow").Debug("deal created")
	logger.With("module", "vault").Info("vault initialized")
	assert.Contains(t, buf.String(), "deal created")
	assert.NotContains(t, buf.String(), "vault initialized")

	conf.LogLevel = "loud"
	_, err = conf.Logger(log.NewNopLogger())
	assert.True(t, errors.ErrInput.Is(err))
}
