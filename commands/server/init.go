package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the path of the genesis file of given home
// directory. The layout is shared with tendermint.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will set the application state in the genesis file and write
// the default node configuration, unless one is already present.
//
// A genesis file created by tendermint is updated in place. When none
// exists, a minimal one with a random chain id is created. An already set
// application state is only replaced when overwrite is true.
func InitCmd(gen GenOptions, logger log.Logger, home string, overwrite bool, args []string) error {
	if _, err := os.Stat(configPath(home)); os.IsNotExist(err) {
		if err := SaveConfig(home, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", configPath(home))
	}

	// no app_options, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}

	genFile := GenesisFile(home)
	doc, err := loadGenesisDoc(genFile)
	if err != nil {
		return err
	}
	if hasAppState(doc) && !overwrite {
		return errors.Wrapf(errors.ErrState, "%s already set in %s", appStateKey, genFile)
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "genesis")
	}
	if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
		return errors.Wrap(err, "config directory")
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func loadGenesisDoc(filename string) (genesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return newGenesisDoc()
	}
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return doc, nil
}

func newGenesisDoc() (genesisDoc, error) {
	chainID := fmt.Sprintf("barter-%s", cmn.RandStr(6))
	if !barter.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrChain, "generated %q", chainID)
	}
	doc := make(genesisDoc)
	doc["chain_id"], _ = json.Marshal(chainID)
	doc["genesis_time"], _ = json.Marshal(time.Now().UTC())
	return doc, nil
}

func hasAppState(doc genesisDoc) bool {
	raw := bytes.TrimSpace(doc[appStateKey])
	switch string(raw) {
	case "", "null", "{}":
		return false
	}
	return true
}
