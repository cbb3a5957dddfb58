package server

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/barter/errors"
	"github.com/pelletier/go-toml"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

// ConfigFile is the name of the application configuration file, stored in
// the config directory next to the genesis file.
const ConfigFile = "app.toml"

// defaultLogLevel applies to modules not named in the log level filter.
const defaultLogLevel = "info"

// Database backends supported by the node.
const (
	BackendLevelDB = "goleveldb"
	BackendMemDB   = "memdb"
)

// Config holds the node settings that are not part of the chain state.
type Config struct {
	Bind      string `toml:"bind" comment:"address the ABCI server listens on"`
	LogLevel  string `toml:"log_level" comment:"main:info,state:debug,*:error style filter"`
	Debug     bool   `toml:"debug" comment:"return the call stack together with errors"`
	DBBackend string `toml:"db_backend" comment:"goleveldb or memdb"`
}

// DefaultConfig returns the settings used when no configuration file is
// present.
func DefaultConfig() Config {
	return Config{
		Bind:      "tcp://localhost:26658",
		LogLevel:  defaultLogLevel,
		DBBackend: BackendLevelDB,
	}
}

// Validate returns an error if the configuration cannot be used to start a
// node.
func (c Config) Validate() error {
	var errs error
	if c.Bind == "" {
		errs = errors.AppendField(errs, "Bind", errors.ErrEmpty)
	}
	if _, err := flags.ParseLogLevel(c.LogLevel, log.NewNopLogger(), defaultLogLevel); err != nil {
		errs = errors.AppendField(errs, "LogLevel", errors.Wrap(errors.ErrInput, err.Error()))
	}
	switch c.DBBackend {
	case BackendLevelDB, BackendMemDB:
	default:
		errs = errors.AppendField(errs, "DBBackend", errors.Wrapf(errors.ErrInput, "unknown backend %q", c.DBBackend))
	}
	return errs
}

// Logger returns the logger filtered to the configured level.
func (c Config) Logger(logger log.Logger) (log.Logger, error) {
	filtered, err := flags.ParseLogLevel(c.LogLevel, logger, defaultLogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return filtered, nil
}

func configPath(home string) string {
	return filepath.Join(home, "config", ConfigFile)
}

// LoadConfig reads the configuration stored in the home directory. Values
// missing from the file keep their defaults. A missing file results in the
// default configuration.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	raw, err := ioutil.ReadFile(configPath(home))
	switch {
	case os.IsNotExist(err):
		return conf, nil
	case err != nil:
		return conf, errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrap(err, "config")
	}
	return conf, nil
}

// SaveConfig writes the configuration into the home directory.
func SaveConfig(home string, conf Config) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}
	raw, err := toml.Marshal(conf)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	path := configPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config directory")
	}
	return ioutil.WriteFile(path, raw, 0644)
}
