package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/token"
)

// Bank moves the assets of a deal. It is implemented by token.Controller.
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
	bank        Bank
	deals       DealBucket
	obligations ObligationBucket
}

func newController(bank Bank) *controller {
	return &controller{
		bank:        bank,
		deals:       NewDealBucket(),
		obligations: NewObligationBucket(),
	}
}

// side is the obligation of one party together with the addresses it
// reproduces.
type side struct {
	*Obligation
	party   barter.Address
	key     barter.Address
	holding barter.Address
}

// CreateParams are the terms of a new deal.
type CreateParams struct {
	ID          DealID
	Taker       barter.Address
	MakerAsset  barter.Address
	TakerAsset  barter.Address
	MakerAmount uint64
	TakerAmount uint64
	// Source is the account the maker pays from.
	Source barter.Address
}

// Create opens a deal and moves the maker's side into custody. The payer
// must authorize the maker's accounts.
func (c *controller) Create(ctx barter.Context, db barter.KVStore, p CreateParams, payer token.Authority) (*Deal, barter.Address, error) {
	id := p.ID
	salt := id.Salt()
	dealAddr, dealProof, err := custody.Derive(ProgramID, roleDeal, id.Maker, salt)
	if err != nil {
		return nil, nil, err
	}
	if ok, err := c.deals.Has(db, dealAddr); err != nil {
		return nil, nil, err
	} else if ok {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "deal %d of %s", id.Nonce, id.Maker)
	}
	ctrlAddr, ctrlProof, err := custody.Derive(ProgramID, roleController, id.Maker, salt)
	if err != nil {
		return nil, nil, err
	}

	a, err := c.openSide(db, id, id.Maker, p.MakerAsset, p.MakerAmount, ctrlAddr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "maker side")
	}
	b, err := c.openSide(db, id, p.Taker, p.TakerAsset, p.TakerAmount, ctrlAddr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "taker side")
	}

	source := p.Source
	if len(source) == 0 {
		if source, err = token.AssociatedAddress(id.Maker, p.MakerAsset); err != nil {
			return nil, nil, err
		}
	}
	if err := c.bank.TransferExact(ctx, db, p.MakerAsset, source, a.holding, p.MakerAmount, payer); err != nil {
		return nil, nil, errors.Wrap(err, "maker deposit")
	}
	a.Deposited = true

	if err := c.chargeReserve(ctx, db, id, ctrlAddr, payer); err != nil {
		return nil, nil, err
	}

	deal := &Deal{
		DealProof:       dealProof,
		ControllerProof: ctrlProof,
		Maker:           id.Maker,
		Taker:           p.Taker,
		Nonce:           id.Nonce,
	}
	if err := c.deals.Put(db, dealAddr, deal); err != nil {
		return nil, nil, errors.Wrap(err, "save deal")
	}
	if err := c.saveSide(db, a); err != nil {
		return nil, nil, err
	}
	if err := c.saveSide(db, b); err != nil {
		return nil, nil, err
	}
	return deal, dealAddr, nil
}

// openSide prepares the obligation of a party and opens its holding account
// owned by the controller.
func (c *controller) openSide(db barter.KVStore, id DealID, party, asset barter.Address, amount uint64, ctrl barter.Address) (*side, error) {
	key, recordProof, err := custody.Derive(ProgramID, roleObligation, party, id.Salt())
	if err != nil {
		return nil, err
	}
	holding, holdingProof, err := custody.Derive(ProgramID, roleHolding, party, id.Salt())
	if err != nil {
		return nil, err
	}
	if _, err := c.bank.CreateAccount(db, holding, asset, ctrl); err != nil {
		return nil, errors.Wrap(err, "holding account")
	}
	ob := &Obligation{
		OwedAmount:   amount,
		AssetType:    asset,
		HoldingProof: holdingProof,
		RecordProof:  recordProof,
	}
	return &side{Obligation: ob, party: party, key: key, holding: holding}, nil
}

func (c *controller) chargeReserve(ctx barter.Context, db barter.KVStore, id DealID, ctrl barter.Address, payer token.Authority) error {
	conf, err := loadConfiguration(db)
	if err != nil {
		return err
	}
	if !conf.reserveEnabled() {
		return nil
	}
	amount, err := conf.reserveFor(DealSize, ObligationSize, ObligationSize, token.AccountSize, token.AccountSize)
	if err != nil {
		return err
	}
	at, err := reserveAddress(id)
	if err != nil {
		return err
	}
	if _, err := c.bank.CreateAccount(db, at, conf.ReserveAsset, ctrl); err != nil {
		return errors.Wrap(err, "reserve account")
	}
	from, err := token.AssociatedAddress(id.Maker, conf.ReserveAsset)
	if err != nil {
		return err
	}
	if err := c.bank.TransferExact(ctx, db, conf.ReserveAsset, from, at, amount, payer); err != nil {
		return errors.Wrap(err, "storage reserve")
	}
	return nil
}

// Load returns the deal with the given identifier and its record address.
// When claimed is not empty it must be the address of the record.
func (c *controller) Load(db barter.ReadOnlyKVStore, id DealID, claimed barter.Address) (*Deal, barter.Address, error) {
	if err := id.Validate(); err != nil {
		return nil, nil, err
	}
	addr, err := DealAddress(id)
	if err != nil {
		return nil, nil, err
	}
	if len(claimed) != 0 && !claimed.Equals(addr) {
		return nil, nil, errors.Wrapf(custody.ErrInvalidDerivation, "deal address %s", claimed)
	}
	var deal Deal
	if err := c.deals.One(db, addr, &deal); err != nil {
		return nil, nil, errors.Wrap(err, "deal")
	}
	if !deal.Maker.Equals(id.Maker) || deal.Nonce != id.Nonce {
		return nil, nil, errors.Wrap(custody.ErrInvalidDerivation, "deal record of another id")
	}
	if _, err := locate(roleDeal, id.Maker, id, deal.DealProof); err != nil {
		return nil, nil, err
	}
	return &deal, addr, nil
}

func (c *controller) loadSide(db barter.ReadOnlyKVStore, id DealID, party barter.Address) (*side, error) {
	key, err := ObligationAddress(id, party)
	if err != nil {
		return nil, err
	}
	var ob Obligation
	if err := c.obligations.One(db, key, &ob); err != nil {
		return nil, errors.Wrapf(err, "obligation of %s", party)
	}
	if _, err := locate(roleObligation, party, id, ob.RecordProof); err != nil {
		return nil, err
	}
	holding, err := locate(roleHolding, party, id, ob.HoldingProof)
	if err != nil {
		return nil, err
	}
	return &side{Obligation: &ob, party: party, key: key, holding: holding}, nil
}

func (c *controller) saveSide(db barter.KVStore, s *side) error {
	if err := c.obligations.Put(db, s.key, s.Obligation); err != nil {
		return errors.Wrapf(err, "save obligation of %s", s.party)
	}
	return nil
}

// Deposit moves the taker's side into custody. The deal is fulfilled when
// both holdings cover what their party owes. A zero amount deposits the
// owed amount. It returns true if the deal got fulfilled.
func (c *controller) Deposit(ctx barter.Context, db barter.KVStore, deal *Deal, dealAddr barter.Address, amount uint64, source barter.Address, payer token.Authority) (bool, error) {
	if deal.Fulfilled {
		return false, errors.Wrap(ErrAlreadySettled, "deal is fulfilled")
	}
	id := deal.ID()
	a, err := c.loadSide(db, id, deal.Maker)
	if err != nil {
		return false, err
	}
	b, err := c.loadSide(db, id, deal.Taker)
	if err != nil {
		return false, err
	}
	if b.Deposited {
		return false, errors.Wrap(ErrAlreadySettled, "taker deposited")
	}
	if amount == 0 {
		amount = b.OwedAmount
	} else if amount != b.OwedAmount {
		return false, errors.Wrapf(errors.ErrAmount, "owed %d, got %d", b.OwedAmount, amount)
	}
	if len(source) == 0 {
		if source, err = token.AssociatedAddress(deal.Taker, b.AssetType); err != nil {
			return false, err
		}
	}
	if err := c.bank.TransferExact(ctx, db, b.AssetType, source, b.holding, amount, payer); err != nil {
		return false, errors.Wrap(err, "taker deposit")
	}
	b.Deposited = true
	if err := c.saveSide(db, b); err != nil {
		return false, err
	}

	heldA, err := c.bank.Balance(db, a.holding)
	if err != nil {
		return false, err
	}
	heldB, err := c.bank.Balance(db, b.holding)
	if err != nil {
		return false, err
	}
	if heldA < a.OwedAmount || heldB < b.OwedAmount {
		return false, nil
	}
	deal.Fulfilled = true
	if err := c.deals.Put(db, dealAddr, deal); err != nil {
		return false, errors.Wrap(err, "save deal")
	}
	return true, nil
}

// Withdraw releases the holding of the counterparty to party. The
// destination must be an account of party; when empty the associated
// account is used. It returns the amount released.
func (c *controller) Withdraw(ctx barter.Context, db barter.KVStore, deal *Deal, party, destination barter.Address) (uint64, error) {
	other, err := c.withdrawable(db, deal, party)
	if err != nil {
		return 0, err
	}

	if len(destination) == 0 {
		if destination, err = c.bank.EnsureAssociated(db, party, other.AssetType); err != nil {
			return 0, err
		}
	} else {
		acc, err := c.bank.Account(db, destination)
		if err != nil {
			return 0, errors.Wrap(err, "destination")
		}
		if !acc.Owner.Equals(party) {
			return 0, errors.Wrap(errors.ErrUnauthorized, "destination of another owner")
		}
	}

	ctrl, err := controllerOf(deal)
	if err != nil {
		return 0, err
	}
	amount, err := c.bank.Balance(db, other.holding)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		if err := c.bank.TransferExact(ctx, db, other.AssetType, other.holding, destination, amount, ctrl); err != nil {
			return 0, errors.Wrap(err, "release")
		}
	}
	other.Released = true
	if err := c.saveSide(db, other); err != nil {
		return 0, err
	}
	return amount, nil
}

// withdrawable returns the side of the counterparty that party may
// withdraw. The deal must be fulfilled and the side not yet released.
func (c *controller) withdrawable(db barter.ReadOnlyKVStore, deal *Deal, party barter.Address) (*side, error) {
	if !deal.Fulfilled {
		return nil, errors.Wrap(ErrIncompleteDeal, "deal is not fulfilled")
	}
	var counterparty barter.Address
	switch {
	case len(party) == 0:
		return nil, errors.Wrap(ErrInvalidUser, "no party signed")
	case party.Equals(deal.Maker):
		counterparty = deal.Taker
	case party.Equals(deal.Taker):
		counterparty = deal.Maker
	default:
		return nil, errors.Wrapf(ErrInvalidUser, "%s is not a party", party)
	}

	other, err := c.loadSide(db, deal.ID(), counterparty)
	if err != nil {
		return nil, err
	}
	if other.Released {
		return nil, errors.Wrap(ErrAlreadySettled, "already withdrawn")
	}
	return other, nil
}

// Close removes a deal once both holdings are empty. The storage reserve
// and anything else left with the controller goes to the maker.
func (c *controller) Close(ctx barter.Context, db barter.KVStore, deal *Deal, dealAddr barter.Address) error {
	id := deal.ID()
	sides := make([]*side, 0, 2)
	for _, party := range []barter.Address{deal.Maker, deal.Taker} {
		s, err := c.loadSide(db, id, party)
		if err != nil {
			return err
		}
		held, err := c.bank.Balance(db, s.holding)
		if err != nil {
			return err
		}
		if held > 0 {
			return errors.Wrapf(ErrAccountContainsFund, "holding of %s contains %d", party, held)
		}
		sides = append(sides, s)
	}

	ctrl, err := controllerOf(deal)
	if err != nil {
		return err
	}
	for _, s := range sides {
		if err := c.bank.CloseAccount(ctx, db, s.holding, ctrl); err != nil {
			return errors.Wrapf(err, "close holding of %s", s.party)
		}
		if err := c.obligations.Delete(db, s.key); err != nil {
			return errors.Wrapf(err, "delete obligation of %s", s.party)
		}
	}
	if err := c.refundReserve(ctx, db, id, ctrl); err != nil {
		return err
	}
	if err := c.deals.Delete(db, dealAddr); err != nil {
		return errors.Wrap(err, "delete deal")
	}
	return nil
}

func (c *controller) refundReserve(ctx barter.Context, db barter.KVStore, id DealID, ctrl ControllerAuthority) error {
	at, err := reserveAddress(id)
	if err != nil {
		return err
	}
	acc, err := c.bank.Account(db, at)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	if acc.Amount > 0 {
		to, err := c.bank.EnsureAssociated(db, id.Maker, acc.Mint)
		if err != nil {
			return err
		}
		if err := c.bank.TransferExact(ctx, db, acc.Mint, at, to, acc.Amount, ctrl); err != nil {
			return errors.Wrap(err, "refund reserve")
		}
	}
	return c.bank.CloseAccount(ctx, db, at, ctrl)
}
