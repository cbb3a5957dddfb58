package utils

import (
	"strings"

	"github.com/iov-one/barter"
)

const (
	// ActionKey tags a delivered transaction with its message path,
	// for example escrow/create.
	ActionKey = "action"
	// ModuleKey tags a delivered transaction with the extension that
	// handled it, for example escrow. Subscribing to module=escrow yields
	// every deal event.
	ModuleKey = "module"
)

// ActionTagger appends the action and module tags to every successful
// delivery. Tags set by the handler come first.
type ActionTagger struct{}

var _ barter.Decorator = ActionTagger{}

// NewActionTagger returns an ActionTagger decorator.
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check does not tag anything.
func (ActionTagger) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver tags the result of next. A transaction without a readable
// message is rejected before next runs.
func (ActionTagger) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	path := msg.Path()

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return res.
		Tag(ActionKey, []byte(path)).
		Tag(ModuleKey, []byte(moduleOf(path))), nil
}

// moduleOf returns the first segment of a message path.
func moduleOf(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
