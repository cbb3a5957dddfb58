package token

import (
	"math"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
)

// Controller is the only way balances are modified.
type Controller struct {
	mints    MintBucket
	accounts AccountBucket
}

// NewController returns a controller working on the default buckets.
func NewController() Controller {
	return Controller{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

// MintAddress returns the asset type address of a mint created by the
// authority for the given symbol.
func MintAddress(authority barter.Address, symbol string) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, "mint", authority, custody.Salt{[]byte(symbol)})
	return addr, err
}

// AssociatedAddress returns the address of the default account of owner for
// the given asset type.
func AssociatedAddress(owner, mint barter.Address) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, "account", owner, custody.Salt{mint})
	return addr, err
}

// CreateMint registers a new asset type.
func (c Controller) CreateMint(db barter.KVStore, asset, authority barter.Address, decimals uint8) (*Mint, error) {
	if ok, err := c.mints.Has(db, asset); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrDuplicate, "mint %s", asset)
	}
	m := &Mint{Authority: authority, Decimals: decimals}
	if err := c.mints.Put(db, asset, m); err != nil {
		return nil, errors.Wrap(err, "save mint")
	}
	return m, nil
}

// Mint returns the mint of the given asset type.
func (c Controller) Mint(db barter.ReadOnlyKVStore, asset barter.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, asset, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", asset)
	}
	return &m, nil
}

// Account returns the account stored at the given address.
func (c Controller) Account(db barter.ReadOnlyKVStore, at barter.Address) (*Account, error) {
	var a Account
	if err := c.accounts.One(db, at, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", at)
	}
	return &a, nil
}

// Balance returns the amount held by the account at the given address.
func (c Controller) Balance(db barter.ReadOnlyKVStore, at barter.Address) (uint64, error) {
	a, err := c.Account(db, at)
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// CreateAccount opens an empty account of the given asset type at an
// address chosen by the caller.
func (c Controller) CreateAccount(db barter.KVStore, at, mint, owner barter.Address) (*Account, error) {
	if err := at.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	if _, err := c.Mint(db, mint); err != nil {
		return nil, err
	}
	if ok, err := c.accounts.Has(db, at); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", at)
	}
	a := &Account{Mint: mint, Owner: owner}
	if err := c.accounts.Put(db, at, a); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return a, nil
}

// EnsureAssociated returns the address of the associated account of owner,
// creating it if it does not exist yet.
func (c Controller) EnsureAssociated(db barter.KVStore, owner, mint barter.Address) (barter.Address, error) {
	at, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	ok, err := c.accounts.Has(db, at)
	if err != nil {
		return nil, err
	}
	if ok {
		return at, nil
	}
	if _, err := c.CreateAccount(db, at, mint, owner); err != nil {
		return nil, err
	}
	return at, nil
}

// MintTo issues new units of the asset into the account at the given
// address. The authority must cover the mint authority.
func (c Controller) MintTo(ctx barter.Context, db barter.KVStore, asset, to barter.Address, amount uint64, authority Authority) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	m, err := c.Mint(db, asset)
	if err != nil {
		return err
	}
	if authority == nil || !authority.Authorize(ctx, m.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "mint authority")
	}
	acc, err := c.typedAccount(db, to, asset)
	if err != nil {
		return err
	}
	if m.Supply > math.MaxUint64-amount || acc.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acc.Amount += amount
	if err := c.mints.Put(db, asset, m); err != nil {
		return errors.Wrap(err, "save mint")
	}
	return c.accounts.Put(db, to, acc)
}

// TransferExact moves exactly amount units of the asset from one account to
// another. Both accounts must hold the given asset type and the authority
// must cover the owner of the source account. No balance is modified if any
// check fails.
func (c Controller) TransferExact(ctx barter.Context, db barter.KVStore, asset, from, to barter.Address, amount uint64, authority Authority) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	src, err := c.typedAccount(db, from, asset)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.typedAccount(db, to, asset)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if authority == nil || !authority.Authorize(ctx, src.Owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "source owner %s", src.Owner)
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrInsufficientBalance, "have %d, need %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

// CloseAccount removes an empty account. The authority must cover the owner.
func (c Controller) CloseAccount(ctx barter.Context, db barter.KVStore, at barter.Address, authority Authority) error {
	acc, err := c.Account(db, at)
	if err != nil {
		return err
	}
	if authority == nil || !authority.Authorize(ctx, acc.Owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "owner %s", acc.Owner)
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d", acc.Amount)
	}
	return c.accounts.Delete(db, at)
}

// typedAccount loads the account and ensures it holds the given asset type.
func (c Controller) typedAccount(db barter.ReadOnlyKVStore, at, asset barter.Address) (*Account, error) {
	acc, err := c.Account(db, at)
	if err != nil {
		return nil, err
	}
	if !acc.Mint.Equals(asset) {
		return nil, errors.Wrapf(ErrTypeMismatch, "account %s holds %s, not %s", at, acc.Mint, asset)
	}
	return acc, nil
}
