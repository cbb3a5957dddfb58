package gconf

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myconfigMsg struct {
	Patch *myconfig
}

func (m *myconfigMsg) Path() string               { return "mypkg/update_configuration" }
func (m *myconfigMsg) Marshal() ([]byte, error)   { return m.Patch.Marshal() }
func (m *myconfigMsg) Unmarshal(raw []byte) error { return m.Patch.Unmarshal(raw) }
func (m *myconfigMsg) Validate() error {
	if m.Patch == nil {
		return nil
	}
	return m.Patch.Validate()
}

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := bartertest.NewCondition()
	other := bartertest.NewCondition()

	cases := map[string]struct {
		// Init represents the configuration's initial state. Use nil
		// to not provide initial state.
		init           *myconfig
		msg            barter.Msg
		msgConditions  []barter.Condition
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantConfig     *myconfig
	}{
		"success": {
			init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg:           &myconfigMsg{Patch: &myconfig{Num: 333, Str: "boing!"}},
			msgConditions: []barter.Condition{cond},
			wantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"zero values are not applied": {
			init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg:           &myconfigMsg{Patch: &myconfig{Str: "only"}},
			msgConditions: []barter.Condition{cond},
			wantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "only"},
		},
		"owner can be changed": {
			init:          &myconfig{Owner: cond.Address(), Num: 1},
			msg:           &myconfigMsg{Patch: &myconfig{Owner: other.Address()}},
			msgConditions: []barter.Condition{cond},
			wantConfig:    &myconfig{Owner: other.Address(), Num: 1},
		},
		"message must be signed by the configuration owner": {
			init:           &myconfig{Owner: cond.Address(), Num: 5125},
			msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			msgConditions:  []barter.Condition{other},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantConfig:     &myconfig{Owner: cond.Address(), Num: 5125},
		},
		"configuration without an owner cannot be updated": {
			init:           &myconfig{Num: 5125},
			msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			msgConditions:  []barter.Condition{cond},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"missing configuration cannot be updated": {
			msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			msgConditions:  []barter.Condition{cond},
			wantCheckErr:   errors.ErrNotFound,
			wantDeliverErr: errors.ErrNotFound,
		},
		"patch is required": {
			init:           &myconfig{Owner: cond.Address()},
			msg:            &myconfigMsg{},
			msgConditions:  []barter.Condition{cond},
			wantCheckErr:   errors.ErrState,
			wantDeliverErr: errors.ErrState,
		},
		"invalid patch": {
			init:           &myconfig{Owner: cond.Address()},
			msg:            &myconfigMsg{Patch: &myconfig{Num: -4}},
			msgConditions:  []barter.Condition{cond},
			wantCheckErr:   errors.ErrInput,
			wantDeliverErr: errors.ErrInput,
		},
		"message without a patch field": {
			init:           &myconfig{Owner: cond.Address()},
			msg:            &bartertest.Msg{RoutePath: "mypkg/update_configuration"},
			msgConditions:  []barter.Condition{cond},
			wantCheckErr:   errors.ErrInput,
			wantDeliverErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &bartertest.CtxAuth{Key: "auth"}
			h := NewUpdateConfigurationHandler("mypkg", &myconfig{}, auth)

			db := store.MemStore()
			if tc.init != nil {
				require.NoError(t, Save(db, "mypkg", tc.init))
			}

			ctx := auth.SetConditions(context.Background(), tc.msgConditions...)
			tx := &bartertest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := h.Deliver(ctx, db, tx); !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			if tc.wantConfig != nil {
				var got myconfig
				require.NoError(t, Load(db, "mypkg", &got))
				assert.Equal(t, *tc.wantConfig, got)
			}
		})
	}
}
