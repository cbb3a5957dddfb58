package token

import (
	"regexp"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
)

const (
	pathCreateMint    = "token/create_mint"
	pathCreateAccount = "token/create_account"
	pathMintTo        = "token/mint_to"
	pathTransfer      = "token/transfer"
)

var isSymbol = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,9}$`).MatchString

// CreateMintMsg registers a new asset type. The signer becomes the mint
// authority.
type CreateMintMsg struct {
	Symbol   string
	Decimals uint32
}

var _ barter.Msg = (*CreateMintMsg)(nil)

func (CreateMintMsg) Path() string {
	return pathCreateMint
}

func (m *CreateMintMsg) Validate() error {
	var errs error
	if !isSymbol(m.Symbol) {
		errs = errors.AppendField(errs, "Symbol", errors.Wrapf(errors.ErrInput, "invalid symbol %q", m.Symbol))
	}
	if m.Decimals > MaxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "max %d", MaxDecimals))
	}
	return errs
}

func (m *CreateMintMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		String(1, m.Symbol).
		Uint64(2, uint64(m.Decimals)).
		Result()
}

func (m *CreateMintMsg) Unmarshal(raw []byte) error {
	*m = CreateMintMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Symbol, err = d.String()
		case 2:
			var v uint64
			v, err = d.Uint64()
			m.Decimals = uint32(v)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "create mint msg")
		}
	}
	return nil
}

// CreateAccountMsg opens the associated account of owner for the given
// asset type. Anyone may open an account on behalf of another address.
type CreateAccountMsg struct {
	Owner barter.Address
	Mint  barter.Address
}

var _ barter.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return pathCreateAccount
}

func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	return errs
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Owner).
		Bytes(2, m.Mint).
		Result()
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Owner, err = d.Bytes()
		case 2:
			m.Mint, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "create account msg")
		}
	}
	return nil
}

// MintToMsg issues new units into the associated account of the recipient.
// It must be signed by the mint authority.
type MintToMsg struct {
	Mint      barter.Address
	Recipient barter.Address
	Amount    uint64
}

var _ barter.Msg = (*MintToMsg)(nil)

func (MintToMsg) Path() string {
	return pathMintTo
}

func (m *MintToMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

func (m *MintToMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Mint).
		Bytes(2, m.Recipient).
		Uint64(3, m.Amount).
		Result()
}

func (m *MintToMsg) Unmarshal(raw []byte) error {
	*m = MintToMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Mint, err = d.Bytes()
		case 2:
			m.Recipient, err = d.Bytes()
		case 3:
			m.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "mint to msg")
		}
	}
	return nil
}

// TransferMsg moves an exact amount between the associated accounts of the
// source and the recipient. The recipient account is opened if missing.
type TransferMsg struct {
	Mint      barter.Address
	Source    barter.Address
	Recipient barter.Address
	Amount    uint64
}

var _ barter.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransfer
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Mint).
		Bytes(2, m.Source).
		Bytes(3, m.Recipient).
		Uint64(4, m.Amount).
		Result()
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Mint, err = d.Bytes()
		case 2:
			m.Source, err = d.Bytes()
		case 3:
			m.Recipient, err = d.Bytes()
		case 4:
			m.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "transfer msg")
		}
	}
	return nil
}
