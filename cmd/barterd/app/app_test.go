package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	"github.com/iov-one/barter/commands/server"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
	"github.com/iov-one/barter/x/token"
	"github.com/iov-one/barter/x/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "test-chain-42"

type account struct {
	pk  *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{pk: crypto.GenPrivKeyEd25519()}
}

func (a *account) address() barter.Address {
	return a.pk.PublicKey().Address()
}

func (a *account) nextSeq() int64 {
	seq := a.seq
	a.seq++
	return seq
}

// testChain is an in-memory application with a block height counter.
type testChain struct {
	t      *testing.T
	app    app.BaseApp
	height int64
}

// newTestChain starts a chain where maker issues BRT and taker issues XYZ.
// Each of them owns the whole supply of their asset.
func newTestChain(t *testing.T, maker, taker *account) *testChain {
	abciApp, err := GenerateApp(&server.Options{
		Logger:   log.NewNopLogger(),
		Debug:    true,
		InMemory: true,
	})
	require.NoError(t, err)
	myApp := abciApp.(app.BaseApp)

	state, err := GenesisStateFor("BRT", maker.address())
	require.NoError(t, err)
	state.Token.Mints = append(state.Token.Mints,
		token.GenesisMint{Symbol: "XYZ", Authority: taker.address(), Decimals: 6})
	state.Token.Accounts = append(state.Token.Accounts,
		token.GenesisAccount{Owner: taker.address(), Symbol: "XYZ", Amount: 5000})
	appState, err := json.Marshal(state)
	require.NoError(t, err)

	// Commit first block, make sure non-nil hash
	myApp.InitChain(abci.RequestInitChain{AppStateBytes: appState, ChainId: chainID})
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	myApp.EndBlock(abci.RequestEndBlock{})
	cres := myApp.Commit()
	assert.NotEmpty(t, cres.Data)
	assert.Equal(t, chainID, myApp.GetChainID())

	return &testChain{t: t, app: myApp, height: 1}
}

func (c *testChain) sign(msg barter.Msg, signer *account) []byte {
	tx := NewTx(msg)
	require.NoError(c.t, tx.Sign(signer.pk, chainID, signer.nextSeq()))
	txBytes, err := tx.Marshal()
	require.NoError(c.t, err)
	require.NotEmpty(c.t, txBytes)
	return txBytes
}

// signAndCommit runs the message in a new block. Check and deliver must
// pass.
func (c *testChain) signAndCommit(msg barter.Msg, signer *account) abci.ResponseDeliverTx {
	txBytes := c.sign(msg, signer)

	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: c.height}})
	chres := c.app.CheckTx(txBytes)
	require.Equal(c.t, uint32(0), chres.Code, chres.Log)
	dres := c.app.DeliverTx(txBytes)
	require.Equal(c.t, uint32(0), dres.Code, dres.Log)
	c.app.EndBlock(abci.RequestEndBlock{})
	cres := c.app.Commit()
	assert.NotEmpty(c.t, cres.Data)
	return dres
}

func (c *testChain) query(path string, data []byte, dest barter.Persistent) bool {
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(c.t, uint32(0), res.Code, "%#v", res)

	var set app.ResultSet
	require.NoError(c.t, set.Unmarshal(res.Value))
	if len(set.Results) == 0 {
		return false
	}
	require.NoError(c.t, app.UnmarshalOneResult(res.Value, dest))
	return true
}

func (c *testChain) balance(owner barter.Address, asset barter.Address) uint64 {
	at, err := token.AssociatedAddress(owner, asset)
	require.NoError(c.t, err)
	var acc token.Account
	if !c.query("/token/accounts", at, &acc) {
		return 0
	}
	return acc.Amount
}

func (c *testChain) deal(id escrow.DealID) (*escrow.Deal, bool) {
	raw, err := id.Marshal()
	require.NoError(c.t, err)
	var deal escrow.Deal
	if !c.query("/escrow/check", raw, &deal) {
		return nil, false
	}
	return &deal, true
}

func TestEscrowScenario(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	chain := newTestChain(t, maker, taker)

	brt, err := token.MintAddress(maker.address(), "BRT")
	require.NoError(t, err)
	xyz, err := token.MintAddress(taker.address(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, uint64(genesisSupply), chain.balance(maker.address(), brt))
	assert.Equal(t, uint64(5000), chain.balance(taker.address(), xyz))

	dres := chain.signAndCommit(&escrow.CreateMsg{
		Nonce:       7,
		Taker:       taker.address(),
		MakerAsset:  brt,
		TakerAsset:  xyz,
		MakerAmount: 1000,
		TakerAmount: 300,
	}, maker)
	var id escrow.DealID
	require.NoError(t, id.Unmarshal(dres.Data))
	assert.Equal(t, escrow.DealID{Maker: maker.address(), Nonce: 7}, id)
	assert.Equal(t, uint64(genesisSupply-1000), chain.balance(maker.address(), brt))

	deal, ok := chain.deal(id)
	require.True(t, ok)
	assert.False(t, deal.Fulfilled)
	assert.Equal(t, taker.address(), deal.Taker)

	chain.signAndCommit(&escrow.DepositMsg{Deal: &id}, taker)
	deal, ok = chain.deal(id)
	require.True(t, ok)
	assert.True(t, deal.Fulfilled)
	assert.Equal(t, uint64(4700), chain.balance(taker.address(), xyz))

	chain.signAndCommit(&escrow.WithdrawMsg{Deal: &id}, maker)
	chain.signAndCommit(&escrow.WithdrawMsg{Deal: &id}, taker)
	assert.Equal(t, uint64(300), chain.balance(maker.address(), xyz))
	assert.Equal(t, uint64(1000), chain.balance(taker.address(), brt))

	chain.signAndCommit(&escrow.CloseMsg{Deal: &id}, maker)
	_, ok = chain.deal(id)
	assert.False(t, ok)
}

func TestFailedTxKeepsState(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	chain := newTestChain(t, maker, taker)

	brt, err := token.MintAddress(maker.address(), "BRT")
	require.NoError(t, err)
	xyz, err := token.MintAddress(taker.address(), "XYZ")
	require.NoError(t, err)

	// The maker cannot fund more than the supply, so nothing is created.
	txBytes := chain.sign(&escrow.CreateMsg{
		Nonce:       1,
		Taker:       taker.address(),
		MakerAsset:  brt,
		TakerAsset:  xyz,
		MakerAmount: genesisSupply + 1,
		TakerAmount: 1,
	}, maker)
	chain.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	dres := chain.app.DeliverTx(txBytes)
	assert.Equal(t, token.ErrInsufficientBalance.ABCICode(), dres.Code, dres.Log)
	chain.app.EndBlock(abci.RequestEndBlock{})
	chain.app.Commit()
	chain.height = 2

	_, ok := chain.deal(escrow.DealID{Maker: maker.address(), Nonce: 1})
	assert.False(t, ok)
	assert.Equal(t, uint64(genesisSupply), chain.balance(maker.address(), brt))

	// The signature was still accepted and the sequence used up.
	var user sigs.UserData
	require.True(t, chain.query("/sigs", maker.address(), &user))
	assert.Equal(t, int64(1), user.Sequence)
}

func TestReplayedTxIsRejected(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	chain := newTestChain(t, maker, taker)

	txBytes := chain.sign(&vault.InitializeMsg{}, maker)
	chain.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	dres := chain.app.DeliverTx(txBytes)
	require.Equal(t, uint32(0), dres.Code, dres.Log)

	dres = chain.app.DeliverTx(txBytes)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), dres.Code, dres.Log)
}

func TestVaultScenario(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	chain := newTestChain(t, maker, taker)

	brt, err := token.MintAddress(maker.address(), "BRT")
	require.NoError(t, err)

	dres := chain.signAndCommit(&vault.InitializeMsg{}, maker)
	vaultAddr, err := vault.VaultAddress(maker.address())
	require.NoError(t, err)
	assert.Equal(t, []byte(vaultAddr), dres.Data)

	chain.signAndCommit(&vault.DepositMsg{Amount: 2500}, maker)
	var acc token.Account
	require.True(t, chain.query("/token/accounts", vaultAddr, &acc))
	assert.Equal(t, uint64(2500), acc.Amount)
	assert.Equal(t, uint64(genesisSupply-2500), chain.balance(maker.address(), brt))

	chain.signAndCommit(&vault.WithdrawMsg{Amount: 500}, maker)
	chain.signAndCommit(&vault.CloseMsg{}, maker)
	assert.Equal(t, uint64(genesisSupply), chain.balance(maker.address(), brt))

	stateAddr, err := vault.StateAddress(maker.address())
	require.NoError(t, err)
	var state vault.State
	assert.False(t, chain.query("/vault/states", stateAddr, &state))
}

func TestUnknownQueryPath(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	chain := newTestChain(t, maker, taker)

	res := chain.app.Query(abci.RequestQuery{Path: "/no/such/path"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}
