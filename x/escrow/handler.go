package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
	"github.com/iov-one/barter/x"
	"github.com/iov-one/barter/x/token"
)

const (
	createDealCost   int64 = 500
	depositDealCost  int64 = 200
	withdrawDealCost int64 = 200
	closeDealCost    int64 = 0
)

// Event tags attached to deliver results. The deal tags carry the address
// of the deal record.
const (
	TagCreated   = "escrow.deal.created"
	TagDeposited = "escrow.deal.deposited"
	TagFulfilled = "escrow.deal.fulfilled"
	TagWithdrawn = "escrow.deal.withdrawn"
	TagClosed    = "escrow.deal.closed"
	TagParty     = "escrow.party"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r barter.Registry, auth x.Authenticator, bank Bank) {
	ctrl := newController(bank)
	r.Handle(pathInitialize, InitializeHandler{})
	r.Handle(pathCreate, CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDeposit, DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathWithdraw, WithdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathClose, CloseHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfiguration, gconf.NewUpdateConfigurationHandler(ModuleName, &Configuration{}, auth))
}

// InitializeHandler reports the program address.
type InitializeHandler struct{}

var _ barter.Handler = InitializeHandler{}

func (InitializeHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	var msg InitializeMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &barter.CheckResult{}, nil
}

func (InitializeHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	var msg InitializeMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	barter.GetLogger(ctx).Info("Escrow started", "program", ProgramID.Base58())
	return &barter.DeliverResult{Data: ProgramID}, nil
}

// CreateHandler opens deals.
type CreateHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = CreateHandler{}

// Check just verifies it is properly formed and returns the cost of
// executing it.
func (h CreateHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: createDealCost}, nil
}

// Deliver stores the deal and moves the maker deposit into custody.
func (h CreateHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, maker, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	params := CreateParams{
		ID:          DealID{Maker: maker, Nonce: msg.Nonce},
		Taker:       msg.Taker,
		MakerAsset:  msg.MakerAsset,
		TakerAsset:  msg.TakerAsset,
		MakerAmount: msg.MakerAmount,
		TakerAmount: msg.TakerAmount,
		Source:      msg.Source,
	}
	_, addr, err := h.ctrl.Create(ctx, db, params, token.NewSignerAuthority(h.auth))
	if err != nil {
		return nil, err
	}
	raw, err := params.ID.Marshal()
	if err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{Data: raw}
	return res.Tag(TagCreated, []byte(addr.String())).Tag(TagParty, []byte(maker.String())), nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateHandler) validate(ctx barter.Context, tx barter.Tx) (*CreateMsg, barter.Address, error) {
	var msg CreateMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	// Maker must authorize this (if not set, defaults to MainSigner).
	maker := msg.Maker
	if len(maker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		maker = signer.Address()
	} else if !h.auth.HasAddress(ctx, maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	if maker.Equals(msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrInput, "taker is the maker")
	}
	return &msg, maker, nil
}

// DepositHandler accepts the taker deposit.
type DepositHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: depositDealCost}, nil
}

func (h DepositHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, deal, addr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	fulfilled, err := h.ctrl.Deposit(ctx, db, deal, addr, msg.Amount, msg.Source, token.NewSignerAuthority(h.auth))
	if err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{}
	res.Tag(TagDeposited, []byte(addr.String())).Tag(TagParty, []byte(deal.Taker.String()))
	if fulfilled {
		res.Tag(TagFulfilled, []byte(addr.String()))
	}
	return res, nil
}

func (h DepositHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*DepositMsg, *Deal, barter.Address, error) {
	var msg DepositMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	deal, addr, err := h.ctrl.Load(db, *msg.Deal, msg.DealAddress)
	if err != nil {
		return nil, nil, nil, err
	}
	if !h.auth.HasAddress(ctx, deal.Taker) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	return &msg, deal, addr, nil
}

// WithdrawHandler releases the counterparty deposit to a party.
type WithdrawHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: withdrawDealCost}, nil
}

func (h WithdrawHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, deal, addr, party, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Withdraw(ctx, db, deal, party, msg.Destination); err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{}
	return res.Tag(TagWithdrawn, []byte(addr.String())).Tag(TagParty, []byte(party.String())), nil
}

// validate loads the deal and ensures the signing party can withdraw now.
func (h WithdrawHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*WithdrawMsg, *Deal, barter.Address, barter.Address, error) {
	var msg WithdrawMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "load msg")
	}
	deal, addr, err := h.ctrl.Load(db, *msg.Deal, msg.DealAddress)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	party := x.AnySigner(ctx, h.auth, deal.Maker, deal.Taker)
	if _, err := h.ctrl.withdrawable(db, deal, party); err != nil {
		return nil, nil, nil, nil, err
	}
	return &msg, deal, addr, party, nil
}

// CloseHandler removes settled deals.
type CloseHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = CloseHandler{}

func (h CloseHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: closeDealCost}, nil
}

func (h CloseHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	deal, addr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Close(ctx, db, deal, addr); err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{}
	return res.Tag(TagClosed, []byte(addr.String())).Tag(TagParty, []byte(deal.Maker.String())), nil
}

func (h CloseHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*Deal, barter.Address, error) {
	var msg CloseMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	deal, addr, err := h.ctrl.Load(db, *msg.Deal, msg.DealAddress)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, deal.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	return deal, addr, nil
}
