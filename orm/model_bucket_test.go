package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, c.Count)
	return raw, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrModel, "counter size")
	}
	c.Count = binary.BigEndian.Uint64(raw)
	return nil
}

func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrModel, "zero count")
	}
	return nil
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters")

	cases := map[string]struct {
		key     []byte
		model   *counter
		wantErr *errors.Error
	}{
		"valid model": {
			key:   []byte("a"),
			model: &counter{Count: 3},
		},
		"invalid model": {
			key:     []byte("b"),
			model:   &counter{},
			wantErr: errors.ErrModel,
		},
		"missing key": {
			model:   &counter{Count: 1},
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := b.Put(db, tc.key, tc.model)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				return
			}
			var got counter
			require.NoError(t, b.One(db, tc.key, &got))
			assert.Equal(t, *tc.model, got)
		})
	}

	ok, err := b.Has(db, []byte("a"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(db, []byte("a")))
	err = b.Delete(db, []byte("a"))
	assert.True(t, errors.ErrNotFound.Is(err))

	var got counter
	err = b.One(db, []byte("a"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters")
	other := NewModelBucket("others")

	require.NoError(t, b.Put(db, []byte("aa"), &counter{Count: 1}))
	require.NoError(t, b.Put(db, []byte("ab"), &counter{Count: 2}))
	require.NoError(t, b.Put(db, []byte("b"), &counter{Count: 3}))
	require.NoError(t, other.Put(db, []byte("aa"), &counter{Count: 4}))

	qr := barter.NewQueryRouter()
	b.Register("", qr)
	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, barter.KeyQueryMod, []byte("b"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("counters:b"), res[0].Key)

	res, err = h.Query(db, barter.KeyQueryMod, []byte("missing"))
	require.NoError(t, err)
	assert.Len(t, res, 0)

	res, err = h.Query(db, barter.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("counters:aa"), res[0].Key)
	assert.Equal(t, []byte("counters:ab"), res[1].Key)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPrefixRangeEnd(t *testing.T) {
	assert.Equal(t, []byte("b"), prefixRangeEnd([]byte("a")))
	assert.Equal(t, []byte{0x01}, prefixRangeEnd([]byte{0x00, 0xFF}))
	assert.Nil(t, prefixRangeEnd([]byte{0xFF, 0xFF}))
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("No") })
}
