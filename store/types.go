package store

import "github.com/iov-one/barter"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = barter.ReadOnlyKVStore
	SetDeleter       = barter.SetDeleter
	KVStore          = barter.KVStore
	Batch            = barter.Batch
	Iterator         = barter.Iterator
	CacheableKVStore = barter.CacheableKVStore
	KVCacheWrap      = barter.KVCacheWrap
	CommitKVStore    = barter.CommitKVStore
	CommitID         = barter.CommitID
	Model            = barter.Model
)
