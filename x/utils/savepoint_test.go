package utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	// a default error if desired
	derr := fmt.Errorf("something went wrong")

	cases := map[string]struct {
		save    barter.Decorator
		handler *bartertest.Handler
		check   bool // whether to call Check or Deliver
		isError bool // true iff we expect errors
		written [][]byte
		missing [][]byte
	}{
		"savepoint not activated, error keeps the write": {
			save:    NewSavepoint(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv, CheckErr: derr},
			check:   true,
			isError: true,
			written: [][]byte{ok, nk},
		},
		"savepoint on check, error drops the write": {
			save:    NewSavepoint().OnCheck(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv, CheckErr: derr},
			check:   true,
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on deliver, error drops the write": {
			save:    NewSavepoint().OnDeliver(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv, DeliverErr: derr},
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both behaviors": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv, DeliverErr: derr},
			isError: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on check does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv, DeliverErr: derr},
			isError: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv},
			written: [][]byte{ok, nk},
		},
		"success on check is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &bartertest.Handler{WriteKey: nk, WriteValue: nv},
			check:   true,
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.isError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}
