package escrow

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/custody"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

const (
	dealRecord       = "Deal"
	obligationRecord = "Obligation"

	// DealSize and ObligationSize are the sizes of the records without
	// the discriminator.
	DealSize       = 1 + 1 + 2*barter.AddressLength + 8 + 1
	ObligationSize = 8 + barter.AddressLength + 1 + 1 + 1 + 1
)

// DealID identifies a deal. A maker can run many deals at once, each with
// its own nonce.
type DealID struct {
	Maker barter.Address
	Nonce uint64
}

var _ barter.Persistent = (*DealID)(nil)

// Salt binds derived addresses to this deal.
func (id DealID) Salt() custody.Salt {
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, id.Nonce)
	return custody.Salt{id.Maker, nonce}
}

func (id *DealID) Validate() error {
	if id == nil {
		return errors.Wrap(errors.ErrEmpty, "deal id")
	}
	return errors.Field("Maker", id.Maker.Validate(), "deal maker")
}

func (id *DealID) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, id.Maker).
		Uint64(2, id.Nonce).
		Result()
}

func (id *DealID) Unmarshal(raw []byte) error {
	*id = DealID{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			id.Maker, err = d.Bytes()
		case 2:
			id.Nonce, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "deal id")
		}
	}
	return nil
}

// Deal is the record of one agreement.
type Deal struct {
	DealProof       uint8
	ControllerProof uint8
	Maker           barter.Address
	Taker           barter.Address
	Nonce           uint64
	// Fulfilled is set once both obligations are deposited and is never
	// reset.
	Fulfilled bool
}

var _ orm.Model = (*Deal)(nil)

// ID returns the identifier of the deal.
func (d *Deal) ID() DealID {
	return DealID{Maker: d.Maker, Nonce: d.Nonce}
}

func (d *Deal) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(d.DealProof); err != nil {
		return err
	}
	if err := enc.WriteUint8(d.ControllerProof); err != nil {
		return err
	}
	if err := orm.WriteAddress(enc, d.Maker); err != nil {
		return err
	}
	if err := orm.WriteAddress(enc, d.Taker); err != nil {
		return err
	}
	if err := orm.WriteUint64(enc, d.Nonce); err != nil {
		return err
	}
	return enc.WriteBool(d.Fulfilled)
}

func (d *Deal) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if d.DealProof, err = dec.ReadUint8(); err != nil {
		return err
	}
	if d.ControllerProof, err = dec.ReadUint8(); err != nil {
		return err
	}
	if d.Maker, err = orm.ReadAddress(dec); err != nil {
		return err
	}
	if d.Taker, err = orm.ReadAddress(dec); err != nil {
		return err
	}
	if d.Nonce, err = orm.ReadUint64(dec); err != nil {
		return err
	}
	d.Fulfilled, err = dec.ReadBool()
	return err
}

func (d *Deal) Marshal() ([]byte, error) {
	return orm.EncodeRecord(dealRecord, d)
}

func (d *Deal) Unmarshal(raw []byte) error {
	return orm.DecodeRecord(dealRecord, raw, d)
}

func (d *Deal) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", d.Maker.Validate())
	errs = errors.AppendField(errs, "Taker", d.Taker.Validate())
	if d.Maker.Equals(d.Taker) {
		errs = errors.AppendField(errs, "Taker", errors.Wrap(errors.ErrInput, "taker is the maker"))
	}
	return errs
}

// Obligation is what one party owes to a deal.
type Obligation struct {
	OwedAmount   uint64
	AssetType    barter.Address
	HoldingProof uint8
	RecordProof  uint8
	// Deposited is set once the party paid the owed amount in.
	Deposited bool
	// Released is set once the holding was withdrawn by the counterparty.
	Released bool
}

var _ orm.Model = (*Obligation)(nil)

func (o *Obligation) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := orm.WriteUint64(enc, o.OwedAmount); err != nil {
		return err
	}
	if err := orm.WriteAddress(enc, o.AssetType); err != nil {
		return err
	}
	if err := enc.WriteUint8(o.HoldingProof); err != nil {
		return err
	}
	if err := enc.WriteUint8(o.RecordProof); err != nil {
		return err
	}
	if err := enc.WriteBool(o.Deposited); err != nil {
		return err
	}
	return enc.WriteBool(o.Released)
}

func (o *Obligation) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if o.OwedAmount, err = orm.ReadUint64(dec); err != nil {
		return err
	}
	if o.AssetType, err = orm.ReadAddress(dec); err != nil {
		return err
	}
	if o.HoldingProof, err = dec.ReadUint8(); err != nil {
		return err
	}
	if o.RecordProof, err = dec.ReadUint8(); err != nil {
		return err
	}
	if o.Deposited, err = dec.ReadBool(); err != nil {
		return err
	}
	o.Released, err = dec.ReadBool()
	return err
}

func (o *Obligation) Marshal() ([]byte, error) {
	return orm.EncodeRecord(obligationRecord, o)
}

func (o *Obligation) Unmarshal(raw []byte) error {
	return orm.DecodeRecord(obligationRecord, raw, o)
}

func (o *Obligation) Validate() error {
	var errs error
	if o.OwedAmount == 0 {
		errs = errors.AppendField(errs, "OwedAmount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "AssetType", o.AssetType.Validate())
	if o.Released && !o.Deposited {
		errs = errors.AppendField(errs, "Released", errors.Wrap(errors.ErrState, "released before deposit"))
	}
	return errs
}

// DealBucket stores deals under their derived address.
type DealBucket struct {
	orm.ModelBucket
}

func NewDealBucket() DealBucket {
	return DealBucket{orm.NewModelBucket("deal")}
}

// ObligationBucket stores obligations under their derived address.
type ObligationBucket struct {
	orm.ModelBucket
}

func NewObligationBucket() ObligationBucket {
	return ObligationBucket{orm.NewModelBucket("obligation")}
}
