package app

import (
	"context"
	"testing"

	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()

	var (
		msg     = &bartertest.Msg{RoutePath: "test/good"}
		handler = &bartertest.Handler{}
		ctx     = context.Background()
		tx      = &bartertest.Tx{Msg: msg}
	)

	r.Handle("test/good", handler)

	_, err := r.Check(ctx, nil, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, nil, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, handler.CallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()

	var (
		ctx = context.Background()
		tx  = &bartertest.Tx{Msg: &bartertest.Msg{RoutePath: "test/secret"}}
	)

	if _, err := r.Check(ctx, nil, tx); !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found error, got %s", err)
	}
	if _, err := r.Deliver(ctx, nil, tx); !errors.ErrNotFound.Is(err) {
		t.Fatalf("expected not found error, got %s", err)
	}
}

func TestRouterBrokenTx(t *testing.T) {
	r := NewRouter()
	tx := &bartertest.Tx{Err: errors.ErrMsg}
	if _, err := r.Deliver(context.Background(), nil, tx); !errors.ErrMsg.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	h := &bartertest.Handler{}
	r.Handle("escrow/create", h)

	assert.Panics(t, func() { r.Handle("escrow/create", h) })
	assert.Panics(t, func() { r.Handle("escrow", h) })
	assert.Panics(t, func() { r.Handle("Escrow/Create", h) })
	assert.Panics(t, func() { r.Handle("escrow/create/more", h) })
	assert.NotPanics(t, func() { r.Handle("escrow/update_configuration", h) })
}
