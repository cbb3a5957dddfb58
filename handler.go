package barter

import (
	"encoding/json"

	"github.com/iov-one/barter/errors"
)

// Checker validates a transaction without changing state that outlives
// the check. The returned result tells how much gas it may use.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one route, for example escrow/create.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs before a handler and decides whether and how next is
// called. Signature verification, savepoints and tagging are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state section of the genesis file, keyed by
// extension name.
type Options map[string]json.RawMessage

// ReadOptions decodes the section stored under key into obj. A missing
// section leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis section of an extension into the store.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
