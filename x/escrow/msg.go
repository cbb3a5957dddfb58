package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
)

const (
	pathInitialize          = "escrow/initialize"
	pathCreate              = "escrow/create"
	pathDeposit             = "escrow/deposit"
	pathWithdraw            = "escrow/withdraw"
	pathClose               = "escrow/close"
	pathUpdateConfiguration = "escrow/update_configuration"
)

// InitializeMsg announces the escrow program. It changes no state.
type InitializeMsg struct{}

var _ barter.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitialize
}

func (*InitializeMsg) Validate() error {
	return nil
}

func (*InitializeMsg) Marshal() ([]byte, error) {
	return nil, nil
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.More() {
		if _, err := d.Field(); err != nil {
			return err
		}
		if err := d.Skip(); err != nil {
			return errors.Wrap(err, "initialize msg")
		}
	}
	return nil
}

// CreateMsg opens a deal. The maker defaults to the main signer.
type CreateMsg struct {
	Maker       barter.Address
	Nonce       uint64
	Taker       barter.Address
	MakerAsset  barter.Address
	TakerAsset  barter.Address
	MakerAmount uint64
	TakerAmount uint64
	// Source is the maker account paying the deposit. The associated
	// account of the maker is used when empty.
	Source barter.Address
}

var _ barter.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreate
}

func (m *CreateMsg) Validate() error {
	var errs error
	if len(m.Maker) != 0 {
		errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
		if m.Maker.Equals(m.Taker) {
			errs = errors.AppendField(errs, "Taker", errors.Wrap(errors.ErrInput, "taker is the maker"))
		}
	}
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	errs = errors.AppendField(errs, "MakerAsset", m.MakerAsset.Validate())
	errs = errors.AppendField(errs, "TakerAsset", m.TakerAsset.Validate())
	if m.MakerAsset.Equals(m.TakerAsset) {
		errs = errors.AppendField(errs, "TakerAsset", errors.Wrap(errors.ErrInput, "both sides use the same asset"))
	}
	if m.MakerAmount == 0 {
		errs = errors.AppendField(errs, "MakerAmount", errors.ErrAmount)
	}
	if m.TakerAmount == 0 {
		errs = errors.AppendField(errs, "TakerAmount", errors.ErrAmount)
	}
	if len(m.Source) != 0 {
		errs = errors.AppendField(errs, "Source", m.Source.Validate())
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Maker).
		Uint64(2, m.Nonce).
		Bytes(3, m.Taker).
		Bytes(4, m.MakerAsset).
		Bytes(5, m.TakerAsset).
		Uint64(6, m.MakerAmount).
		Uint64(7, m.TakerAmount).
		Bytes(8, m.Source).
		Result()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Maker, err = d.Bytes()
		case 2:
			m.Nonce, err = d.Uint64()
		case 3:
			m.Taker, err = d.Bytes()
		case 4:
			m.MakerAsset, err = d.Bytes()
		case 5:
			m.TakerAsset, err = d.Bytes()
		case 6:
			m.MakerAmount, err = d.Uint64()
		case 7:
			m.TakerAmount, err = d.Uint64()
		case 8:
			m.Source, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "create msg")
		}
	}
	return nil
}

// DepositMsg pays the taker's side of a deal.
type DepositMsg struct {
	Deal *DealID
	// Amount must be zero or the owed amount.
	Amount uint64
	// DealAddress optionally references the deal record. It is verified
	// against the derived address.
	DealAddress barter.Address
	// Source is the taker account paying the deposit.
	Source barter.Address
}

var _ barter.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDeposit
}

func (m *DepositMsg) Validate() error {
	errs := errors.AppendField(nil, "Deal", m.Deal.Validate())
	errs = errors.AppendField(errs, "DealAddress", validateOptional(m.DealAddress))
	errs = errors.AppendField(errs, "Source", validateOptional(m.Source))
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Deal).
		Uint64(2, m.Amount).
		Bytes(3, m.DealAddress).
		Bytes(4, m.Source).
		Result()
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	*m = DepositMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Deal = &DealID{}
			err = d.Message(m.Deal)
		case 2:
			m.Amount, err = d.Uint64()
		case 3:
			m.DealAddress, err = d.Bytes()
		case 4:
			m.Source, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "deposit msg")
		}
	}
	return nil
}

// WithdrawMsg releases the counterparty deposit to the signing party.
type WithdrawMsg struct {
	Deal        *DealID
	DealAddress barter.Address
	// Destination is an account of the signer receiving the funds. The
	// associated account is used, and opened if needed, when empty.
	Destination barter.Address
}

var _ barter.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdraw
}

func (m *WithdrawMsg) Validate() error {
	errs := errors.AppendField(nil, "Deal", m.Deal.Validate())
	errs = errors.AppendField(errs, "DealAddress", validateOptional(m.DealAddress))
	errs = errors.AppendField(errs, "Destination", validateOptional(m.Destination))
	return errs
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Deal).
		Bytes(2, m.DealAddress).
		Bytes(3, m.Destination).
		Result()
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	*m = WithdrawMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Deal = &DealID{}
			err = d.Message(m.Deal)
		case 2:
			m.DealAddress, err = d.Bytes()
		case 3:
			m.Destination, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "withdraw msg")
		}
	}
	return nil
}

// CloseMsg removes a settled deal. It must be signed by the maker.
type CloseMsg struct {
	Deal        *DealID
	DealAddress barter.Address
}

var _ barter.Msg = (*CloseMsg)(nil)

func (CloseMsg) Path() string {
	return pathClose
}

func (m *CloseMsg) Validate() error {
	errs := errors.AppendField(nil, "Deal", m.Deal.Validate())
	errs = errors.AppendField(errs, "DealAddress", validateOptional(m.DealAddress))
	return errs
}

func (m *CloseMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Deal).
		Bytes(2, m.DealAddress).
		Result()
}

func (m *CloseMsg) Unmarshal(raw []byte) error {
	*m = CloseMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Deal = &DealID{}
			err = d.Message(m.Deal)
		case 2:
			m.DealAddress, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "close msg")
		}
	}
	return nil
}

// UpdateConfigurationMsg patches the module configuration. Only non zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ barter.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfiguration
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch required")
	}
	return m.Patch.Validate()
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Patch).
		Result()
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Patch = &Configuration{}
			err = d.Message(m.Patch)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "update configuration msg")
		}
	}
	return nil
}

func validateOptional(a barter.Address) error {
	if len(a) == 0 {
		return nil
	}
	return a.Validate()
}
