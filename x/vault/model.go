package vault

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// ModuleName is the route and configuration prefix of this module.
const ModuleName = "vault"

// ProgramID is the namespace of the addresses derived by this module.
var ProgramID = custody.ProgramID(ModuleName)

const (
	roleState = "state"
	roleVault = "vault"

	stateRecord = "VaultState"

	// StateSize is the size of the state record without the discriminator.
	StateSize = 1 + 1
)

// StateAddress returns the address of the state record of user.
func StateAddress(user barter.Address) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, roleState, user, nil)
	return addr, err
}

// VaultAddress returns the address of the token account of user's vault.
func VaultAddress(user barter.Address) (barter.Address, error) {
	addr, _, err := custody.Derive(ProgramID, roleVault, user, nil)
	return addr, err
}

// State is the record of an initialized vault.
type State struct {
	StateProof uint8
	VaultProof uint8
}

var _ orm.Model = (*State)(nil)

func (s *State) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(s.StateProof); err != nil {
		return err
	}
	return enc.WriteUint8(s.VaultProof)
}

func (s *State) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if s.StateProof, err = dec.ReadUint8(); err != nil {
		return err
	}
	s.VaultProof, err = dec.ReadUint8()
	return err
}

func (s *State) Marshal() ([]byte, error) {
	return orm.EncodeRecord(stateRecord, s)
}

func (s *State) Unmarshal(raw []byte) error {
	return orm.DecodeRecord(stateRecord, raw, s)
}

func (s *State) Validate() error {
	return nil
}

// signer rebuilds the authority over the vault account of user.
func (s *State) signer(user barter.Address) (*custody.Signer, error) {
	if _, err := custody.Canonical(ProgramID, roleVault, user, nil, s.VaultProof); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	return custody.NewSigner(ProgramID, roleVault, user, nil, s.VaultProof)
}

// StateBucket stores vault states under their derived address.
type StateBucket struct {
	orm.ModelBucket
}

func NewStateBucket() StateBucket {
	return StateBucket{orm.NewModelBucket("vault_state")}
}
