package vault

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
)

// Configuration of the vault module. It is loaded from the "conf.vault"
// genesis section.
type Configuration struct {
	// Owner may update the configuration.
	Owner barter.Address `json:"owner"`
	// Asset is the asset type new vaults hold.
	Asset barter.Address `json:"asset"`
	// MinReserve is paid into a vault when it is opened and must remain
	// there after a withdraw.
	MinReserve uint64 `json:"min_reserve"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() barter.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if len(c.Asset) != 0 {
		errs = errors.AppendField(errs, "Asset", c.Asset.Validate())
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, c.Owner).
		Bytes(2, c.Asset).
		Uint64(3, c.MinReserve).
		Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			c.Owner, err = d.Bytes()
		case 2:
			c.Asset, err = d.Bytes()
		case 3:
			c.MinReserve, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "vault configuration")
		}
	}
	return nil
}

func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ModuleName, &conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return &conf, nil
		}
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
