package app

import (
	"testing"

	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStore(t *testing.T) {
	db, cleanup := bartertest.CommitKVStore(t)
	defer cleanup()

	cs, err := NewCommitStore(db)
	require.NoError(t, err)

	key := []byte("deal")
	require.NoError(t, cs.DeliverStore().Set(key, []byte("open")))
	require.NoError(t, cs.CheckStore().Set([]byte("pending"), []byte("x")))

	got, err := cs.Snapshot().Get(key)
	require.NoError(t, err)
	assert.Nil(t, got, "uncommitted write visible")

	id, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)

	info, err := cs.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, id, info)

	got, err = cs.Snapshot().Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("open"), got)

	// The check cache is dropped on commit, not written.
	got, err = cs.CheckStore().Get([]byte("pending"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestChainID(t *testing.T) {
	db, cleanup := bartertest.CommitKVStore(t)
	defer cleanup()
	cs, err := NewCommitStore(db)
	require.NoError(t, err)
	kv := cs.DeliverStore()

	id, err := loadChainID(kv)
	require.NoError(t, err)
	assert.Equal(t, "", id)

	err = saveChainID(kv, "x")
	assert.True(t, errors.ErrInput.Is(err), "unexpected error: %+v", err)

	require.NoError(t, saveChainID(kv, "barter-test-1"))
	id, err = loadChainID(kv)
	require.NoError(t, err)
	assert.Equal(t, "barter-test-1", id)

	err = saveChainID(kv, "barter-test-2")
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)
}
