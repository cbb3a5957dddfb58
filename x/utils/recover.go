package utils

import (
	"fmt"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Recovery converts a panic raised by any handler further down the stack
// into an ErrPanic result. The panic is logged with the path of the
// message that caused it.
type Recovery struct{}

var _ barter.Decorator = Recovery{}

// NewRecovery returns a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check runs next and turns a panic into an error.
func (r Recovery) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (_ *barter.CheckResult, err error) {
	defer r.catch(ctx, tx, &err)
	return next.Check(ctx, store, tx)
}

// Deliver runs next and turns a panic into an error.
func (r Recovery) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (_ *barter.DeliverResult, err error) {
	defer r.catch(ctx, tx, &err)
	return next.Deliver(ctx, store, tx)
}

// catch must be deferred directly, recover returns nil otherwise.
func (Recovery) catch(ctx barter.Context, tx barter.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	path := msgPath(tx)
	barter.GetLogger(ctx).Error("Recovered from panic",
		"path", path, "panic", fmt.Sprint(r))
	*err = errors.Wrapf(errors.ErrPanic, "%s: %v", path, r)
}

// msgPath is the route of the message carried by tx. A transaction that
// cannot provide one is reported as missing.
func msgPath(tx barter.Tx) string {
	if tx == nil {
		return "(missing)"
	}
	return barter.GetPath(tx)
}
