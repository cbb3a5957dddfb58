package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

const (
	// ModuleName is the route and configuration prefix of this module.
	ModuleName = "token"

	mintRecord    = "Mint"
	accountRecord = "Account"

	// MaxDecimals is the highest precision a mint may declare.
	MaxDecimals = 18
)

// ProgramID is the namespace of the addresses derived by this module.
var ProgramID = custody.ProgramID(ModuleName)

// Mint describes a single asset type.
type Mint struct {
	// Authority is allowed to issue new units.
	Authority barter.Address
	Decimals  uint8
	Supply    uint64
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := orm.WriteAddress(enc, m.Authority); err != nil {
		return err
	}
	if err := enc.WriteUint8(m.Decimals); err != nil {
		return err
	}
	return orm.WriteUint64(enc, m.Supply)
}

func (m *Mint) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if m.Authority, err = orm.ReadAddress(dec); err != nil {
		return err
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return err
	}
	m.Supply, err = orm.ReadUint64(dec)
	return err
}

func (m *Mint) Marshal() ([]byte, error) {
	return orm.EncodeRecord(mintRecord, m)
}

func (m *Mint) Unmarshal(raw []byte) error {
	return orm.DecodeRecord(mintRecord, raw, m)
}

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if m.Decimals > MaxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "max %d", MaxDecimals))
	}
	return errs
}

// Account holds a balance of a single asset type.
type Account struct {
	Mint   barter.Address
	Owner  barter.Address
	Amount uint64
}

var _ orm.Model = (*Account)(nil)

func (a *Account) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := orm.WriteAddress(enc, a.Mint); err != nil {
		return err
	}
	if err := orm.WriteAddress(enc, a.Owner); err != nil {
		return err
	}
	return orm.WriteUint64(enc, a.Amount)
}

func (a *Account) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if a.Mint, err = orm.ReadAddress(dec); err != nil {
		return err
	}
	if a.Owner, err = orm.ReadAddress(dec); err != nil {
		return err
	}
	a.Amount, err = orm.ReadUint64(dec)
	return err
}

func (a *Account) Marshal() ([]byte, error) {
	return orm.EncodeRecord(accountRecord, a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return orm.DecodeRecord(accountRecord, raw, a)
}

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	return errs
}

// AccountSize is the number of bytes an account record occupies, without
// the discriminator.
const AccountSize = 2*barter.AddressLength + 8

// MintBucket stores mints under their asset type address.
type MintBucket struct {
	orm.ModelBucket
}

func NewMintBucket() MintBucket {
	return MintBucket{orm.NewModelBucket("token_mint")}
}

// AccountBucket stores accounts under their address.
type AccountBucket struct {
	orm.ModelBucket
}

func NewAccountBucket() AccountBucket {
	return AccountBucket{orm.NewModelBucket("token_acct")}
}
