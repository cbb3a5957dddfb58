package app

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// CommitStore keeps the committed state and the two caches on top of it.
// Deliver writes what a block changes and is flushed on Commit. Check
// holds mempool state and is dropped on Commit.
// ABCI calls Commit from the consensus connection only, so there is no
// locking.
type CommitStore struct {
	committed barter.CommitKVStore
	deliver   barter.KVCacheWrap
	check     barter.KVCacheWrap
}

// NewCommitStore opens the latest version of store.
func NewCommitStore(store barter.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: store}
	cs.renew()
	return cs, nil
}

func (cs *CommitStore) renew() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and app hash of the last commit.
func (cs *CommitStore) CommitInfo() (barter.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered since the last commit.
func (cs *CommitStore) Commit() (barter.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return barter.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.renew()
	return id, nil
}

// CheckStore is used by CheckTx.
func (cs *CommitStore) CheckStore() barter.CacheableKVStore {
	return cs.check
}

// DeliverStore is used by DeliverTx, InitChain and genesis loading.
func (cs *CommitStore) DeliverStore() barter.CacheableKVStore {
	return cs.deliver
}

// Snapshot returns a cache over the committed state only. Queries read
// from it so they never see uncommitted deals.
func (cs *CommitStore) Snapshot() barter.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// chainIDKey lives under the _bt: prefix reserved for application data.
const chainIDKey = "_bt:chainID"

// loadChainID returns the chain id written at genesis, or an empty string
// before the chain was initialized.
func loadChainID(kv barter.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID writes the chain id. It can be written only once.
func saveChainID(kv barter.KVStore, chainID string) error {
	if !barter.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	key := []byte(chainIDKey)
	switch ok, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case ok:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	if err := kv.Set(key, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
