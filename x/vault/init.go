package vault

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
)

// Initializer fulfils the Initializer interface to load the configuration
// from the genesis file.
type Initializer struct{}

var _ barter.Initializer = Initializer{}

// FromGenesis stores the "conf.vault" section. Without it no vault can be
// opened.
func (Initializer) FromGenesis(opts barter.Options, db barter.KVStore) error {
	err := gconf.InitConfig(db, opts, ModuleName, &Configuration{})
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
