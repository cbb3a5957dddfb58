package escrow

import (
	"math"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
	"github.com/iov-one/barter/orm"
)

// accountOverhead is the storage each record is charged for on top of its
// discriminator and fields.
const accountOverhead = 128

// Configuration of the escrow module. It is loaded from the "conf.escrow"
// genesis section.
type Configuration struct {
	// Owner may update the configuration.
	Owner barter.Address `json:"owner"`
	// ReserveAsset is the asset type the storage reserve is paid in. When
	// empty no reserve is charged.
	ReserveAsset barter.Address `json:"reserve_asset"`
	// ReservePerByte is the reserve charged for each byte of a record,
	// including the fixed account overhead.
	ReservePerByte uint64 `json:"reserve_per_byte"`
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
	if len(c.ReserveAsset) != 0 {
		errs = errors.AppendField(errs, "ReserveAsset", c.ReserveAsset.Validate())
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, c.Owner).
		Bytes(2, c.ReserveAsset).
		Uint64(3, c.ReservePerByte).
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
			c.ReserveAsset, err = d.Bytes()
		case 3:
			c.ReservePerByte, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "escrow configuration")
		}
	}
	return nil
}

// reserveEnabled returns true if records must be paid for.
func (c *Configuration) reserveEnabled() bool {
	return len(c.ReserveAsset) != 0 && c.ReservePerByte != 0
}

// loadConfiguration returns the stored configuration. A chain started
// without one charges no reserve.
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

// reserveFor returns the reserve charged for records of the given sizes.
func (c *Configuration) reserveFor(sizes ...int) (uint64, error) {
	var total uint64
	for _, size := range sizes {
		total += accountOverhead + orm.DiscriminatorLength + uint64(size)
	}
	if total != 0 && c.ReservePerByte > math.MaxUint64/total {
		return 0, errors.Wrap(errors.ErrOverflow, "reserve")
	}
	return total * c.ReservePerByte, nil
}
