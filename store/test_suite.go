package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite provides many methods that can be called in package-specific
// test code. We just customize the store being tested (pass in
// constructor), the rest of the logic is generic to the CacheableKVStore
// interface.
//
// This removes duplication between btree_test.go and iavl/adapter_test.go.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores returned by
// constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet does basic sanity checks on our cache.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	require.NoError(t, c2.Delete(k))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)
	s.AssertGetHas(t, base, k, v, true)

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle overwriting values and deleting
// underlying values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("b"), []byte("2")))

	child := base.CacheWrap()
	require.NoError(t, child.Set([]byte("a"), []byte("11")))
	require.NoError(t, child.Delete([]byte("b")))
	require.NoError(t, child.Set([]byte("c"), []byte("3")))

	s.AssertGetHas(t, base, []byte("a"), []byte("1"), true)
	s.AssertGetHas(t, base, []byte("b"), []byte("2"), true)
	s.AssertGetHas(t, base, []byte("c"), nil, false)

	s.AssertGetHas(t, child, []byte("a"), []byte("11"), true)
	s.AssertGetHas(t, child, []byte("b"), nil, false)
	s.AssertGetHas(t, child, []byte("c"), []byte("3"), true)

	require.NoError(t, child.Write())
	s.AssertGetHas(t, base, []byte("a"), []byte("11"), true)
	s.AssertGetHas(t, base, []byte("b"), nil, false)
	s.AssertGetHas(t, base, []byte("c"), []byte("3"), true)
}

// IteratorWithConflicts makes sure the iterators combine the cached and the
// parent data, in both directions.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	child := base.CacheWrap()
	require.NoError(t, child.Set([]byte("b"), []byte("child-b")))
	require.NoError(t, child.Set([]byte("c"), []byte("child-c")))
	require.NoError(t, child.Delete([]byte("e")))
	require.NoError(t, child.Set([]byte("h"), []byte("child-h")))

	it, err := child.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Model{
		{Key: []byte("a"), Value: []byte("base-a")},
		{Key: []byte("b"), Value: []byte("child-b")},
		{Key: []byte("c"), Value: []byte("child-c")},
		{Key: []byte("g"), Value: []byte("base-g")},
		{Key: []byte("h"), Value: []byte("child-h")},
	}, s.readAll(t, it))

	it, err = child.Iterator([]byte("b"), []byte("g"))
	require.NoError(t, err)
	assert.Equal(t, []Model{
		{Key: []byte("b"), Value: []byte("child-b")},
		{Key: []byte("c"), Value: []byte("child-c")},
	}, s.readAll(t, it))

	it, err = child.ReverseIterator([]byte("b"), nil)
	require.NoError(t, err)
	assert.Equal(t, []Model{
		{Key: []byte("h"), Value: []byte("child-h")},
		{Key: []byte("g"), Value: []byte("base-g")},
		{Key: []byte("c"), Value: []byte("child-c")},
		{Key: []byte("b"), Value: []byte("child-b")},
	}, s.readAll(t, it))
}

// AssertGetHas makes sure that this key returns the given value or nil, and
// has returns true or false depending on whether we expect a value.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

func (s *TestSuite) readAll(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Close()
	var res []Model
	for ; it.Valid(); require.NoError(t, it.Next()) {
		res = append(res, Model{Key: it.Key(), Value: it.Value()})
	}
	return res
}
