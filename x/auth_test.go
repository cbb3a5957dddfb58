package x

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/bartertest/assert"
)

func TestAuth(t *testing.T) {
	a := bartertest.NewCondition()
	b := bartertest.NewCondition()
	c := bartertest.NewCondition()

	ctx1 := &bartertest.CtxAuth{Key: "foo"}
	ctx2 := &bartertest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          barter.Context
		auth         Authenticator
		mainSigner   barter.Condition
		wantInCtx    barter.Condition
		wantNotInCtx barter.Condition
		wantAll      []barter.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &bartertest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &bartertest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []barter.Condition{a},
		},
		"chained signers": {
			ctx: context.Background(),
			auth: ChainAuth(
				&bartertest.Auth{Signer: b},
				&bartertest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []barter.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []barter.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
			assert.Equal(t, len(all), len(GetAddresses(tc.ctx, tc.auth)))

			if !HasAllConditions(tc.ctx, tc.auth, all) {
				t.Fatal("has all conditions check failed")
			}
			if HasAllConditions(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)) {
				t.Fatal("has all condition succeeded after adding non existing condition")
			}

			if tc.wantInCtx != nil {
				got := AnySigner(tc.ctx, tc.auth, tc.wantNotInCtx.Address(), tc.wantInCtx.Address())
				assert.Equal(t, tc.wantInCtx.Address(), got)
			}
			assert.Nil(t, AnySigner(tc.ctx, tc.auth, tc.wantNotInCtx.Address()))
		})
	}
}
