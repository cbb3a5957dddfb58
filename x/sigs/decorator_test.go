package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := barter.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perms := []barter.Condition{priv.PublicKey().Condition()}

	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec barter.Decorator, my barter.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec barter.Decorator, my barter.Tx) error {
		res, err := dec.Check(ctx, checkKv, my, signers)
		if err == nil && len(signers.Signers) > 0 {
			assert.Equal(t, int64(len(signers.Signers)*signatureVerifyCost), res.GasAllocated)
		}
		return err
	}

	for i, fn := range []func(barter.Decorator, barter.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d: %+v", i, err)

		// test with one
		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.True(t, ErrInvalidSequence.Is(err), "%d: %+v", i, err)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []barter.Condition{}, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []*StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorIgnoresUnsignedTx(t *testing.T) {
	signers := new(SigCheckHandler)
	ctx := barter.WithChainID(context.Background(), "deco-rate")
	tx := &struct{ barter.Tx }{}

	_, err := NewDecorator().Deliver(ctx, store.MemStore(), tx, signers)
	require.NoError(t, err)
	assert.Empty(t, signers.Signers)
}

func TestAuthenticate(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	cond := priv.PublicKey().Condition()
	ctx := withSigners(context.Background(), []barter.Condition{cond})

	var auth Authenticate
	assert.True(t, auth.HasAddress(ctx, cond.Address()))
	assert.False(t, auth.HasAddress(ctx, crypto.GenPrivKeyEd25519().PublicKey().Address()))
	assert.False(t, auth.HasAddress(context.Background(), cond.Address()))
}
