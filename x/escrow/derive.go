package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/token"
)

// ModuleName is the route and configuration prefix of this module.
const ModuleName = "escrow"

// ProgramID is the namespace of the addresses derived by this module.
var ProgramID = custody.ProgramID(ModuleName)

// Derivation roles. Deal, controller and reserve addresses are derived from
// the maker, obligation and holding addresses from the party they belong to.
const (
	roleDeal       = "deal"
	roleController = "controller"
	roleReserve    = "reserve"
	roleObligation = "obligation"
	roleHolding    = "holding"
)

// DealAddress returns the address of the deal record.
func DealAddress(id DealID) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, roleDeal, id.Maker, id.Salt())
	return addr, err
}

// ObligationAddress returns the address of the obligation record of party.
func ObligationAddress(id DealID, party barter.Address) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, roleObligation, party, id.Salt())
	return addr, err
}

// HoldingAddress returns the address of the custody account holding the
// deposit of party.
func HoldingAddress(id DealID, party barter.Address) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, roleHolding, party, id.Salt())
	return addr, err
}

// reserveAddress returns the account the storage reserve of a deal is kept
// in. It is owned by the controller.
func reserveAddress(id DealID) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, roleReserve, id.Maker, id.Salt())
	return addr, err
}

// locate checks that the stored proof is the canonical proof for the role
// and returns the address it reproduces.
func locate(role string, identity barter.Address, id DealID, proof uint8) (barter.Address, error) {
	addr, err := custody.Canonical(ProgramID, role, identity, id.Salt(), proof)
	if err != nil {
		return nil, errors.Wrapf(err, "%s of %s", role, identity)
	}
	return addr, nil
}

// ControllerAuthority is the capability to move funds held in the custody
// accounts of a single deal. It can only be obtained from a stored deal
// record inside this package.
type ControllerAuthority interface {
	token.Authority
	Address() barter.Address
}

// controllerOf rebuilds the controller authority of a deal from its
// stored proof.
func controllerOf(deal *Deal) (ControllerAuthority, error) {
	id := deal.ID()
	if _, err := locate(roleController, id.Maker, id, deal.ControllerProof); err != nil {
		return nil, err
	}
	signer, err := custody.NewSigner(ProgramID, roleController, id.Maker, id.Salt(), deal.ControllerProof)
	if err != nil {
		return nil, errors.Wrap(err, "controller")
	}
	return signer, nil
}
