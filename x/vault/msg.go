package vault

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
)

const (
	pathInitialize          = "vault/initialize"
	pathDeposit             = "vault/deposit"
	pathWithdraw            = "vault/withdraw"
	pathClose               = "vault/close"
	pathUpdateConfiguration = "vault/update_configuration"
)

// skipAll decodes a message without fields.
func skipAll(raw []byte, name string) error {
	d := codec.NewDecoder(raw)
	for d.More() {
		if _, err := d.Field(); err != nil {
			return err
		}
		if err := d.Skip(); err != nil {
			return errors.Wrap(err, name)
		}
	}
	return nil
}

func decodeAmount(raw []byte, name string) (uint64, error) {
	var amount uint64
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return 0, err
		}
		switch field {
		case 1:
			amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return 0, errors.Wrap(err, name)
		}
	}
	return amount, nil
}

// InitializeMsg opens the vault of the signer.
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

func (*InitializeMsg) Unmarshal(raw []byte) error {
	return skipAll(raw, "initialize msg")
}

// DepositMsg moves funds of the signer into their vault.
type DepositMsg struct {
	Amount uint64
}

var _ barter.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDeposit
}

func (m *DepositMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Uint64(1, m.Amount).
		Result()
}

func (m *DepositMsg) Unmarshal(raw []byte) (err error) {
	m.Amount, err = decodeAmount(raw, "deposit msg")
	return err
}

// WithdrawMsg moves funds from the vault back to the signer.
type WithdrawMsg struct {
	Amount uint64
}

var _ barter.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string {
	return pathWithdraw
}

func (m *WithdrawMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Uint64(1, m.Amount).
		Result()
}

func (m *WithdrawMsg) Unmarshal(raw []byte) (err error) {
	m.Amount, err = decodeAmount(raw, "withdraw msg")
	return err
}

// CloseMsg empties and removes the vault of the signer.
type CloseMsg struct{}

var _ barter.Msg = (*CloseMsg)(nil)

func (CloseMsg) Path() string {
	return pathClose
}

func (*CloseMsg) Validate() error {
	return nil
}

func (*CloseMsg) Marshal() ([]byte, error) {
	return nil, nil
}

func (*CloseMsg) Unmarshal(raw []byte) error {
	return skipAll(raw, "close msg")
}

// UpdateConfigurationMsg patches the module configuration.
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
