package app

import (
	"github.com/iov-one/barter/commands"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
	"github.com/iov-one/barter/x/token"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	user := &sigs.UserData{
		Pubkey:   pub,
		Sequence: 17,
	}

	maker := pub.Address()
	taker := crypto.GenPrivKeyEd25519().PublicKey().Address()
	brt, err := token.MintAddress(maker, "BRT")
	if err != nil {
		panic(err)
	}
	xyz, err := token.MintAddress(taker, "XYZ")
	if err != nil {
		panic(err)
	}

	createMsg := &escrow.CreateMsg{
		Nonce:       1,
		Taker:       taker,
		MakerAsset:  brt,
		TakerAsset:  xyz,
		MakerAmount: 1000,
		TakerAmount: 250,
	}
	id := escrow.DealID{Maker: maker, Nonce: 1}
	depositMsg := &escrow.DepositMsg{Deal: &id, Amount: 250}

	deal := &escrow.Deal{
		Maker: maker,
		Taker: taker,
		Nonce: 1,
	}
	transferMsg := &token.TransferMsg{
		Mint:      brt,
		Source:    maker,
		Recipient: taker,
		Amount:    5,
	}

	unsigned := Tx{Msg: createMsg}
	tx := unsigned
	if err := tx.Sign(priv, "test-123", 17); err != nil {
		panic(err)
	}

	return []commands.Example{
		{Filename: "priv_key", Obj: priv},
		{Filename: "pub_key", Obj: pub},
		{Filename: "user", Obj: user},
		{Filename: "deal", Obj: deal},
		{Filename: "create_msg", Obj: createMsg},
		{Filename: "deposit_msg", Obj: depositMsg},
		{Filename: "transfer_msg", Obj: transferMsg},
		{Filename: "unsigned_tx", Obj: &unsigned},
		{Filename: "signed_tx", Obj: &tx},
	}
}
