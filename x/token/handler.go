package token

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x"
)

const (
	createMintCost    = 300
	createAccountCost = 100
	mintToCost        = 100
	transferCost      = 100
)

// RegisterQuery will register the mints as "/token/mints" and the accounts
// as "/token/accounts".
func RegisterQuery(qr barter.QueryRouter) {
	NewMintBucket().Register("token/mints", qr)
	NewAccountBucket().Register("token/accounts", qr)
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r barter.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathCreateMint, CreateMintHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCreateAccount, CreateAccountHandler{ctrl: ctrl})
	r.Handle(pathMintTo, MintToHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathTransfer, TransferHandler{auth: auth, ctrl: ctrl})
}

// CreateMintHandler registers asset types.
type CreateMintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ barter.Handler = CreateMintHandler{}

func (h CreateMintHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: createMintCost}, nil
}

func (h CreateMintHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, authority, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	asset, err := MintAddress(authority, msg.Symbol)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.CreateMint(db, asset, authority, uint8(msg.Decimals)); err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{Data: asset}
	return res.Tag("token.mint", []byte(asset.String())), nil
}

func (h CreateMintHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*CreateMintMsg, barter.Address, error) {
	var msg CreateMintMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, signer.Address(), nil
}

// CreateAccountHandler opens associated accounts.
type CreateAccountHandler struct {
	ctrl Controller
}

var _ barter.Handler = CreateAccountHandler{}

func (h CreateAccountHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	var msg CreateAccountMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &barter.CheckResult{GasAllocated: createAccountCost}, nil
}

func (h CreateAccountHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	var msg CreateAccountMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	at, err := AssociatedAddress(msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.CreateAccount(db, at, msg.Mint, msg.Owner); err != nil {
		return nil, err
	}
	return &barter.DeliverResult{Data: at}, nil
}

// MintToHandler issues new units.
type MintToHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ barter.Handler = MintToHandler{}

func (h MintToHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	var msg MintToMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &barter.CheckResult{GasAllocated: mintToCost}, nil
}

func (h MintToHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	var msg MintToMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	to, err := h.ctrl.EnsureAssociated(db, msg.Recipient, msg.Mint)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MintTo(ctx, db, msg.Mint, to, msg.Amount, NewSignerAuthority(h.auth)); err != nil {
		return nil, err
	}
	return &barter.DeliverResult{Data: to}, nil
}

// TransferHandler moves funds between associated accounts.
type TransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ barter.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	from, err := AssociatedAddress(msg.Source, msg.Mint)
	if err != nil {
		return nil, err
	}
	to, err := h.ctrl.EnsureAssociated(db, msg.Recipient, msg.Mint)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.TransferExact(ctx, db, msg.Mint, from, to, msg.Amount, NewSignerAuthority(h.auth)); err != nil {
		return nil, err
	}
	return &barter.DeliverResult{}, nil
}

func (h TransferHandler) validate(ctx barter.Context, tx barter.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source signature missing")
	}
	return &msg, nil
}
