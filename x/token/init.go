package token

import (
	"context"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

const optKey = "token"

// GenesisMint is used to parse the mints from the genesis file. The asset
// type address is derived from the authority and the symbol.
type GenesisMint struct {
	Symbol    string         `json:"symbol"`
	Authority barter.Address `json:"authority"`
	Decimals  uint8          `json:"decimals"`
}

// GenesisAccount credits the associated account of the owner with units of
// a mint declared in the same file.
type GenesisAccount struct {
	Owner  barter.Address `json:"owner"`
	Symbol string         `json:"symbol"`
	Amount uint64         `json:"amount"`
}

// Genesis is the content of the "token" section.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ barter.Initializer = Initializer{}

// FromGenesis will parse initial mints and balances from genesis and save
// them to the database.
func (Initializer) FromGenesis(opts barter.Options, db barter.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController()
	assets := make(map[string]barter.Address)
	for i, m := range gen.Mints {
		if !isSymbol(m.Symbol) {
			return errors.Wrapf(errors.ErrInput, "mint %d: invalid symbol %q", i, m.Symbol)
		}
		if _, ok := assets[m.Symbol]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "mint %d: symbol %q", i, m.Symbol)
		}
		asset, err := MintAddress(m.Authority, m.Symbol)
		if err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		if _, err := ctrl.CreateMint(db, asset, m.Authority, m.Decimals); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		assets[m.Symbol] = asset
	}
	for i, a := range gen.Accounts {
		asset, ok := assets[a.Symbol]
		if !ok {
			return errors.Wrapf(errors.ErrNotFound, "account %d: symbol %q", i, a.Symbol)
		}
		if err := a.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "account %d owner", i)
		}
		at, err := ctrl.EnsureAssociated(db, a.Owner, asset)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if a.Amount == 0 {
			continue
		}
		if err := ctrl.MintTo(context.Background(), db, asset, at, a.Amount, genesisAuthority{}); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

// genesisAuthority can issue any asset while the chain is initialized.
type genesisAuthority struct{}

func (genesisAuthority) Authorize(barter.Context, barter.Address) bool {
	return true
}
