package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// RegisterQuery will register the deal status check as "/escrow/check" and
// the records as "/escrow/deals" and "/escrow/obligations".
func RegisterQuery(qr barter.QueryRouter) {
	qr.Register("/escrow/check", barter.QueryHandlerFunc(checkQuery))
	NewDealBucket().Register("escrow/deals", qr)
	NewObligationBucket().Register("escrow/obligations", qr)
}

// checkQuery returns the deal record for the encoded DealID given as data.
// It requires no authentication. The stored proof is verified as in any
// other operation, so a tampered record is reported instead of returned.
func checkQuery(db barter.ReadOnlyKVStore, mod string, data []byte) ([]barter.Model, error) {
	if mod != barter.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	var id DealID
	if err := id.Unmarshal(data); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	deal, _, err := Check(db, id)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	raw, err := deal.Marshal()
	if err != nil {
		return nil, err
	}
	key, err := DealAddress(id)
	if err != nil {
		return nil, err
	}
	return []barter.Model{barter.Pair(NewDealBucket().DBKey(key), raw)}, nil
}

// Check returns the deal and whether it is fulfilled. It does not modify
// the state.
func Check(db barter.ReadOnlyKVStore, id DealID) (*Deal, bool, error) {
	deal, _, err := newController(nil).Load(db, id, nil)
	if err != nil {
		return nil, false, err
	}
	return deal, deal.Fulfilled, nil
}
