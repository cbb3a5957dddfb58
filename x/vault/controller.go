package vault

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/token"
)

// Bank is the part of the token module a vault moves funds with.
type Bank interface {
	Account(db barter.ReadOnlyKVStore, at barter.Address) (*token.Account, error)
	Balance(db barter.ReadOnlyKVStore, at barter.Address) (uint64, error)
	CreateAccount(db barter.KVStore, at, mint, owner barter.Address) (*token.Account, error)
	EnsureAssociated(db barter.KVStore, owner, mint barter.Address) (barter.Address, error)
	TransferExact(ctx barter.Context, db barter.KVStore, asset, from, to barter.Address, amount uint64, authority token.Authority) error
	CloseAccount(ctx barter.Context, db barter.KVStore, at barter.Address, authority token.Authority) error
}

var _ Bank = token.Controller{}

type controller struct {
	bank   Bank
	states StateBucket
}

func newController(bank Bank) *controller {
	return &controller{bank: bank, states: NewStateBucket()}
}

// vault is a loaded vault of a single user.
type vault struct {
	user    barter.Address
	state   barter.Address
	account *token.Account
	address barter.Address
	signer  *custody.Signer
}

// Initialize creates the state record and the vault account of user. The
// vault account owns itself and is funded with the configured reserve from
// the associated account of the user.
func (c *controller) Initialize(ctx barter.Context, db barter.KVStore, user barter.Address, payer token.Authority) (barter.Address, barter.Address, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if len(conf.Asset) == 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "vault asset not configured")
	}
	stateAddr, stateProof, err := custody.Derive(ProgramID, roleState, user, nil)
	if err != nil {
		return nil, nil, err
	}
	switch ok, err := c.states.Has(db, stateAddr); {
	case err != nil:
		return nil, nil, err
	case ok:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "vault of %s", user)
	}
	vaultAddr, vaultProof, err := custody.Derive(ProgramID, roleVault, user, nil)
	if err != nil {
		return nil, nil, err
	}
	if _, err := c.bank.CreateAccount(db, vaultAddr, conf.Asset, vaultAddr); err != nil {
		return nil, nil, errors.Wrap(err, "vault account")
	}
	if conf.MinReserve > 0 {
		if err := c.pay(ctx, db, user, conf.Asset, vaultAddr, conf.MinReserve, payer); err != nil {
			return nil, nil, errors.Wrap(err, "reserve")
		}
	}
	state := &State{StateProof: stateProof, VaultProof: vaultProof}
	if err := c.states.Put(db, stateAddr, state); err != nil {
		return nil, nil, errors.Wrap(err, "save state")
	}
	return stateAddr, vaultAddr, nil
}

// Load returns the vault of user. Both stored proofs are verified.
func (c *controller) Load(db barter.ReadOnlyKVStore, user barter.Address) (*vault, error) {
	stateAddr, err := StateAddress(user)
	if err != nil {
		return nil, err
	}
	var state State
	if err := c.states.One(db, stateAddr, &state); err != nil {
		return nil, errors.Wrapf(err, "vault of %s", user)
	}
	if _, err := custody.Canonical(ProgramID, roleState, user, nil, state.StateProof); err != nil {
		return nil, errors.Wrap(err, "state")
	}
	signer, err := state.signer(user)
	if err != nil {
		return nil, err
	}
	account, err := c.bank.Account(db, signer.Address())
	if err != nil {
		return nil, errors.Wrap(err, "vault account")
	}
	return &vault{
		user:    user,
		state:   stateAddr,
		account: account,
		address: signer.Address(),
		signer:  signer,
	}, nil
}

// Deposit moves amount from the associated account of the user into the
// vault.
func (c *controller) Deposit(ctx barter.Context, db barter.KVStore, v *vault, amount uint64, payer token.Authority) error {
	return c.pay(ctx, db, v.user, v.account.Mint, v.address, amount, payer)
}

// pay moves amount of asset from the associated account of user to dst.
func (c *controller) pay(ctx barter.Context, db barter.KVStore, user, asset, dst barter.Address, amount uint64, payer token.Authority) error {
	src, err := token.AssociatedAddress(user, asset)
	if err != nil {
		return err
	}
	balance, err := c.bank.Balance(db, src)
	switch {
	case errors.ErrNotFound.Is(err):
		balance = 0
	case err != nil:
		return err
	}
	if balance < amount {
		return errors.Wrapf(ErrInsufficientLamports, "balance %d, requested %d", balance, amount)
	}
	return c.bank.TransferExact(ctx, db, asset, src, dst, amount, payer)
}

// Withdraw moves amount from the vault to the associated account of the
// user, created if missing. The vault must keep the configured reserve.
func (c *controller) Withdraw(ctx barter.Context, db barter.KVStore, v *vault, amount uint64) error {
	conf, err := loadConfiguration(db)
	if err != nil {
		return err
	}
	if v.account.Amount < amount || v.account.Amount-amount < conf.MinReserve {
		return errors.Wrapf(ErrInsufficientLamports, "vault holds %d, withdraw %d, reserve %d", v.account.Amount, amount, conf.MinReserve)
	}
	return c.release(ctx, db, v, amount)
}

func (c *controller) release(ctx barter.Context, db barter.KVStore, v *vault, amount uint64) error {
	dst, err := c.bank.EnsureAssociated(db, v.user, v.account.Mint)
	if err != nil {
		return err
	}
	return c.bank.TransferExact(ctx, db, v.account.Mint, v.address, dst, amount, v.signer)
}

// Close returns everything left in the vault, the reserve included, to the
// user and removes the vault account and state.
func (c *controller) Close(ctx barter.Context, db barter.KVStore, v *vault) (uint64, error) {
	left := v.account.Amount
	if left > 0 {
		if err := c.release(ctx, db, v, left); err != nil {
			return 0, err
		}
	}
	if err := c.bank.CloseAccount(ctx, db, v.address, v.signer); err != nil {
		return 0, errors.Wrap(err, "vault account")
	}
	if err := c.states.Delete(db, v.state); err != nil {
		return 0, errors.Wrap(err, "delete state")
	}
	return left, nil
}
