package app

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestStoreAppLifecycle(t *testing.T) {
	db, cleanup := bartertest.CommitKVStore(t)
	defer cleanup()

	qr := barter.NewQueryRouter()
	bucket := orm.NewModelBucket("dummy")
	bucket.Register("", qr)

	s := NewStoreApp("test-app", db, qr, context.Background()).WithInit(dummyInit{})
	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "hello"}`),
	})
	assert.Equal(t, "test-chain-1", s.GetChainID())

	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	height, ok := barter.GetHeight(s.BlockContext())
	require.True(t, ok)
	assert.Equal(t, int64(1), height)
	assert.Equal(t, "test-chain-1", barter.GetChainID(s.BlockContext()))
	s.EndBlock(abci.RequestEndBlock{})
	first := s.Commit().Data
	assert.NotEmpty(t, first)

	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, "test-app", info.Data)
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, first, info.LastBlockAppHash)

	// Anything written by deliver becomes visible to queries only
	// after a commit.
	require.NoError(t, s.DeliverStore().Set(bucket.DBKey([]byte("a")), []byte("one")))
	res := s.Query(abci.RequestQuery{Path: "/dummy", Data: []byte("a")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var values ResultSet
	require.NoError(t, values.Unmarshal(res.Value))
	assert.Empty(t, values.Results)

	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	second := s.Commit().Data
	assert.NotEqual(t, first, second)

	res = s.Query(abci.RequestQuery{Path: "/dummy", Data: []byte("a")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, int64(2), res.Height)
	var keys ResultSet
	require.NoError(t, keys.Unmarshal(res.Key))
	require.NoError(t, values.Unmarshal(res.Value))
	models, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, bucket.DBKey([]byte("a")), models[0].Key)
	assert.Equal(t, []byte("one"), models[0].Value)

	res = s.Query(abci.RequestQuery{Path: "/dummy?prefix"})
	require.Equal(t, uint32(0), res.Code, res.Log)
	require.NoError(t, values.Unmarshal(res.Value))
	assert.Len(t, values.Results, 1)

	res = s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
	res = s.Query(abci.RequestQuery{Path: "/dummy?range"})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
	res = s.Query(abci.RequestQuery{Path: "/dummy", Height: 1})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
}

func TestStoreAppReload(t *testing.T) {
	db, cleanup := bartertest.CommitKVStore(t)
	defer cleanup()

	s := NewStoreApp("test-app", db, barter.NewQueryRouter(), context.Background()).WithInit(dummyInit{})
	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "hello"}`),
	})
	s.Commit()

	// A restarted application reads the chain id from the store.
	again := NewStoreApp("test-app", db, barter.NewQueryRouter(), context.Background())
	assert.Equal(t, "test-chain-1", again.GetChainID())
	assert.Panics(t, func() {
		again.InitChain(abci.RequestInitChain{
			ChainId:       "test-chain-2",
			AppStateBytes: []byte(`{}`),
		})
	})
}

func TestResultSetEncoding(t *testing.T) {
	models := []barter.Model{
		barter.Pair([]byte("k1"), []byte("v1")),
		barter.Pair([]byte("k2"), nil),
	}
	raw, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var set ResultSet
	require.NoError(t, set.Unmarshal(raw))
	require.Len(t, set.Results, 2)
	assert.Equal(t, []byte("v1"), set.Results[0])
	assert.Empty(t, set.Results[1])

	_, err = JoinResults(ResultsFromKeys(models[:1]), &set)
	if !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
