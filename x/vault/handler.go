package vault

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
	"github.com/iov-one/barter/x"
	"github.com/iov-one/barter/x/token"
)

const (
	initializeCost int64 = 200
	depositCost    int64 = 100
	withdrawCost   int64 = 100
	closeCost      int64 = 0
)

// Event tags attached to deliver results. They carry the address of the
// state record.
const (
	TagInitialized = "vault.initialized"
	TagDeposited   = "vault.deposited"
	TagWithdrawn   = "vault.withdrawn"
	TagClosed      = "vault.closed"
)

// RegisterQuery will register the vault states as "/vault/states".
func RegisterQuery(qr barter.QueryRouter) {
	NewStateBucket().Register("vault/states", qr)
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r barter.Registry, auth x.Authenticator, bank Bank) {
	ctrl := newController(bank)
	r.Handle(pathInitialize, InitializeHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathDeposit, DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathWithdraw, WithdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathClose, CloseHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfiguration, gconf.NewUpdateConfigurationHandler(ModuleName, &Configuration{}, auth))
}

// user returns the address of the main signer.
func user(ctx barter.Context, auth x.Authenticator) (barter.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// InitializeHandler opens vaults.
type InitializeHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	var msg InitializeMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := user(ctx, h.auth); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: initializeCost}, nil
}

func (h InitializeHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	var msg InitializeMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := user(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	state, account, err := h.ctrl.Initialize(ctx, db, owner, token.NewSignerAuthority(h.auth))
	if err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("Vault initialized", "state", state.Base58())
	res := &barter.DeliverResult{Data: account}
	return res.Tag(TagInitialized, []byte(state.String())), nil
}

// DepositHandler moves funds into a vault.
type DepositHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: depositCost}, nil
}

func (h DepositHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Deposit(ctx, db, v, msg.Amount, token.NewSignerAuthority(h.auth)); err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{}
	return res.Tag(TagDeposited, []byte(v.state.String())), nil
}

func (h DepositHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*DepositMsg, *vault, error) {
	var msg DepositMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := user(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	v, err := h.ctrl.Load(db, owner)
	if err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// WithdrawHandler moves funds out of a vault.
type WithdrawHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h WithdrawHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Withdraw(ctx, db, v, msg.Amount); err != nil {
		return nil, err
	}
	res := &barter.DeliverResult{}
	return res.Tag(TagWithdrawn, []byte(v.state.String())), nil
}

func (h WithdrawHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*WithdrawMsg, *vault, error) {
	var msg WithdrawMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := user(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	v, err := h.ctrl.Load(db, owner)
	if err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// CloseHandler removes vaults.
type CloseHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ barter.Handler = CloseHandler{}

func (h CloseHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: closeCost}, nil
}

func (h CloseHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	left, err := h.ctrl.Close(ctx, db, v)
	if err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("Vault closed", "state", v.state.Base58(), "returned", left)
	res := &barter.DeliverResult{}
	return res.Tag(TagClosed, []byte(v.state.String())), nil
}

func (h CloseHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*vault, error) {
	var msg CloseMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := user(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	return h.ctrl.Load(db, owner)
}
