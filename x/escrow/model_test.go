package escrow

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSizes(t *testing.T) {
	deal := &Deal{Maker: bartertest.RandomAddr(t), Taker: bartertest.RandomAddr(t)}
	size, err := orm.RecordSize(deal)
	require.NoError(t, err)
	assert.Equal(t, DealSize, size)

	ob := &Obligation{OwedAmount: 1, AssetType: bartertest.RandomAddr(t)}
	size, err = orm.RecordSize(ob)
	require.NoError(t, err)
	assert.Equal(t, ObligationSize, size)
}

func TestDerivedAddressesAreDistinct(t *testing.T) {
	maker := bartertest.RandomAddr(t)
	taker := bartertest.RandomAddr(t)
	id := DealID{Maker: maker, Nonce: 1}

	addrs := make(map[string]string)
	add := func(name string, a barter.Address, err error) {
		t.Helper()
		require.NoError(t, err)
		if prev, ok := addrs[a.String()]; ok {
			t.Fatalf("%s collides with %s", name, prev)
		}
		addrs[a.String()] = name
	}

	a, err := DealAddress(id)
	add("deal", a, err)
	a, err = reserveAddress(id)
	add("reserve", a, err)
	for _, party := range []barter.Address{maker, taker} {
		a, err = ObligationAddress(id, party)
		add("obligation", a, err)
		a, err = HoldingAddress(id, party)
		add("holding", a, err)
	}
	a, err = DealAddress(DealID{Maker: maker, Nonce: 2})
	add("next deal", a, err)
}

func TestTamperedProof(t *testing.T) {
	e := newEnv(t, 0)
	id := e.create(1)
	addr, err := DealAddress(id)
	require.NoError(t, err)

	var deal Deal
	require.NoError(t, NewDealBucket().One(e.db, addr, &deal))
	deal.DealProof--
	require.NoError(t, NewDealBucket().Put(e.db, addr, &deal))

	_, _, err = Check(e.db, id)
	if !custody.ErrInvalidDerivation.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	_, err = e.deliver(&DepositMsg{Deal: &id}, e.taker)
	if !custody.ErrInvalidDerivation.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestTamperedHoldingProof(t *testing.T) {
	e := newEnv(t, 0)
	id := e.create(1)
	key, err := ObligationAddress(id, e.taker.Address())
	require.NoError(t, err)

	var ob Obligation
	require.NoError(t, NewObligationBucket().One(e.db, key, &ob))
	ob.HoldingProof++
	require.NoError(t, NewObligationBucket().Put(e.db, key, &ob))

	_, err = e.deliver(&DepositMsg{Deal: &id}, e.taker)
	if !custody.ErrInvalidDerivation.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	assert.Equal(t, uint64(takerAmount), e.balance(e.taker.Address(), e.assetY))
}

func TestCheckQuery(t *testing.T) {
	e := newEnv(t, 0)
	id := e.create(1)
	qr := barter.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/escrow/check")
	require.NotNil(t, h)

	raw, err := id.Marshal()
	require.NoError(t, err)
	models, err := h.Query(e.db, barter.KeyQueryMod, raw)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var deal Deal
	require.NoError(t, deal.Unmarshal(models[0].Value))
	assert.False(t, deal.Fulfilled)
	assert.Equal(t, e.taker.Address(), deal.Taker)

	_, err = e.deliver(&DepositMsg{Deal: &id}, e.taker)
	require.NoError(t, err)
	models, err = h.Query(e.db, barter.KeyQueryMod, raw)
	require.NoError(t, err)
	require.NoError(t, deal.Unmarshal(models[0].Value))
	assert.True(t, deal.Fulfilled)

	unknown := DealID{Maker: id.Maker, Nonce: 9}
	raw, err = unknown.Marshal()
	require.NoError(t, err)
	models, err = h.Query(e.db, barter.KeyQueryMod, raw)
	require.NoError(t, err)
	assert.Empty(t, models)

	_, err = h.Query(e.db, barter.PrefixQueryMod, raw)
	if !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestCreateMsgValidate(t *testing.T) {
	x := bartertest.RandomAddr(t)
	y := bartertest.RandomAddr(t)
	taker := bartertest.RandomAddr(t)

	cases := map[string]struct {
		msg     *CreateMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: &CreateMsg{Taker: taker, MakerAsset: x, TakerAsset: y, MakerAmount: 1, TakerAmount: 2},
		},
		"missing taker": {
			msg:     &CreateMsg{MakerAsset: x, TakerAsset: y, MakerAmount: 1, TakerAmount: 2},
			wantErr: errors.ErrInput,
		},
		"maker equals taker": {
			msg:     &CreateMsg{Maker: taker, Taker: taker, MakerAsset: x, TakerAsset: y, MakerAmount: 1, TakerAmount: 2},
			wantErr: errors.ErrInput,
		},
		"zero taker amount": {
			msg:     &CreateMsg{Taker: taker, MakerAsset: x, TakerAsset: y, MakerAmount: 1},
			wantErr: errors.ErrAmount,
		},
		"short source": {
			msg:     &CreateMsg{Taker: taker, MakerAsset: x, TakerAsset: y, MakerAmount: 1, TakerAmount: 2, Source: x[:3]},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestDepositMsgEncoding(t *testing.T) {
	msg := &DepositMsg{
		Deal:   &DealID{Maker: bartertest.RandomAddr(t), Nonce: 42},
		Amount: 50,
		Source: bartertest.RandomAddr(t),
	}
	raw, err := msg.Marshal()
	require.NoError(t, err)
	var got DepositMsg
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)

	var empty DepositMsg
	require.NoError(t, empty.Unmarshal(nil))
	if err := empty.Validate(); !errors.ErrEmpty.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
