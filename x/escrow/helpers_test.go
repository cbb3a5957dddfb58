package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/x/token"
	"github.com/iov-one/barter/x/utils"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	makerAmount = 100
	takerAmount = 50
	reserveFund = 5000
)

type mintAuthority struct{}

func (mintAuthority) Authorize(barter.Context, barter.Address) bool { return true }

type handlerRegistry map[string]barter.Handler

func (r handlerRegistry) Handle(path string, h barter.Handler) {
	r[path] = h
}

// env is a chain state with two assets, a funded maker and a funded taker.
type env struct {
	t      testing.TB
	db     barter.CacheableKVStore
	auth   *bartertest.CtxAuth
	bank   token.Controller
	routes handlerRegistry

	maker    barter.Condition
	taker    barter.Condition
	stranger barter.Condition
	admin    barter.Condition

	assetX  barter.Address
	assetY  barter.Address
	reserve barter.Address
}

// newEnv funds the maker with 100 X, the taker with 50 Y and the maker with
// reserve units. A non zero rate enables the storage reserve.
func newEnv(t testing.TB, reservePerByte uint64) *env {
	t.Helper()
	e := &env{
		t:        t,
		db:       store.MemStore(),
		auth:     &bartertest.CtxAuth{Key: "auth"},
		bank:     token.NewController(),
		routes:   handlerRegistry{},
		maker:    bartertest.NewCondition(),
		taker:    bartertest.NewCondition(),
		stranger: bartertest.NewCondition(),
		admin:    bartertest.NewCondition(),
	}
	e.assetX = e.newAsset("XXX")
	e.assetY = e.newAsset("YYY")
	e.reserve = e.newAsset("RSV")
	e.fund(e.maker.Address(), e.assetX, makerAmount)
	e.fund(e.taker.Address(), e.assetY, takerAmount)
	e.fund(e.maker.Address(), e.reserve, reserveFund)

	conf := &Configuration{Owner: e.admin.Address()}
	if reservePerByte != 0 {
		conf.ReserveAsset = e.reserve
		conf.ReservePerByte = reservePerByte
	}
	require.NoError(t, gconf.Save(e.db, ModuleName, conf))

	RegisterRoutes(e.routes, e.auth, e.bank)
	return e
}

func (e *env) newAsset(symbol string) barter.Address {
	issuer := bartertest.RandomAddr(e.t)
	asset, err := token.MintAddress(issuer, symbol)
	require.NoError(e.t, err)
	_, err = e.bank.CreateMint(e.db, asset, issuer, 0)
	require.NoError(e.t, err)
	return asset
}

func (e *env) fund(owner, asset barter.Address, amount uint64) barter.Address {
	at, err := e.bank.EnsureAssociated(e.db, owner, asset)
	require.NoError(e.t, err)
	if amount > 0 {
		require.NoError(e.t, e.bank.MintTo(context.Background(), e.db, asset, at, amount, mintAuthority{}))
	}
	return at
}

// deliver runs the message through check and deliver, each inside a
// savepoint, as the application does.
func (e *env) deliver(msg barter.Msg, signers ...barter.Condition) (*barter.DeliverResult, error) {
	ctx := e.auth.SetConditions(context.Background(), signers...)
	tx := &bartertest.Tx{Msg: msg}
	h, ok := e.routes[msg.Path()]
	require.True(e.t, ok, "no handler for %s", msg.Path())
	if _, err := utils.NewSavepoint().OnCheck().Check(ctx, e.db, tx, h); err != nil {
		return nil, err
	}
	return utils.NewSavepoint().OnDeliver().Deliver(ctx, e.db, tx, h)
}

// create opens the default deal: 100 X from the maker for 50 Y from the
// taker.
func (e *env) create(nonce uint64) DealID {
	res, err := e.deliver(&CreateMsg{
		Nonce:       nonce,
		Taker:       e.taker.Address(),
		MakerAsset:  e.assetX,
		TakerAsset:  e.assetY,
		MakerAmount: makerAmount,
		TakerAmount: takerAmount,
	}, e.maker)
	require.NoError(e.t, err)
	var id DealID
	require.NoError(e.t, id.Unmarshal(res.Data))
	return id
}

// balance returns the balance of the associated account, zero if there is
// none.
func (e *env) balance(owner, asset barter.Address) uint64 {
	at, err := token.AssociatedAddress(owner, asset)
	require.NoError(e.t, err)
	return e.balanceAt(at)
}

func (e *env) balanceAt(at barter.Address) uint64 {
	amount, err := e.bank.Balance(e.db, at)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	require.NoError(e.t, err)
	return amount
}

func (e *env) holding(id DealID, party barter.Address) uint64 {
	at, err := HoldingAddress(id, party)
	require.NoError(e.t, err)
	return e.balanceAt(at)
}

func (e *env) fulfilled(id DealID) bool {
	_, ok, err := Check(e.db, id)
	require.NoError(e.t, err)
	return ok
}

func tag(key string, addr barter.Address) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(addr.String())}
}
