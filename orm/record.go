package orm

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// DiscriminatorLength is the size of the prefix of every record.
const DiscriminatorLength = 8

// Discriminator returns the prefix identifying records of the given type
// name: the first bytes of sha256("account:<name>").
func Discriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:DiscriminatorLength]
}

// Record is a fixed layout model serialized with borsh.
type Record interface {
	MarshalWithEncoder(*bin.Encoder) error
	UnmarshalWithDecoder(*bin.Decoder) error
}

// EncodeRecord serializes the record prefixed with the discriminator of its
// type name.
func EncodeRecord(name string, r Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteBytes(Discriminator(name), false); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := r.MarshalWithEncoder(enc); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "encode %s: %s", name, err)
	}
	return buf.Bytes(), nil
}

// DecodeRecord loads raw into r. The discriminator must match the type name
// and no bytes may be left over.
func DecodeRecord(name string, raw []byte, r Record) error {
	dec := bin.NewBorshDecoder(raw)
	disc, err := dec.ReadNBytes(DiscriminatorLength)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "%s discriminator: %s", name, err)
	}
	if !bytes.Equal(disc, Discriminator(name)) {
		return errors.Wrapf(errors.ErrType, "not a %s record", name)
	}
	if err := r.UnmarshalWithDecoder(dec); err != nil {
		return errors.Wrapf(errors.ErrModel, "decode %s: %s", name, err)
	}
	if dec.Remaining() != 0 {
		return errors.Wrapf(errors.ErrModel, "%d trailing bytes in %s", dec.Remaining(), name)
	}
	return nil
}

// RecordSize returns the size of the record fields, without the
// discriminator.
func RecordSize(r Record) (int, error) {
	var buf bytes.Buffer
	if err := r.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return 0, errors.Wrap(errors.ErrModel, err.Error())
	}
	return buf.Len(), nil
}

// WriteAddress writes a fixed size address field.
func WriteAddress(enc *bin.Encoder, a barter.Address) error {
	if len(a) != barter.AddressLength {
		return errors.Wrapf(errors.ErrInput, "address of %d bytes", len(a))
	}
	return enc.WriteBytes(a, false)
}

// ReadAddress reads a fixed size address field.
func ReadAddress(dec *bin.Decoder) (barter.Address, error) {
	raw, err := dec.ReadNBytes(barter.AddressLength)
	if err != nil {
		return nil, err
	}
	out := make(barter.Address, barter.AddressLength)
	copy(out, raw)
	return out, nil
}

// WriteUint64 writes a little endian integer, as borsh does.
func WriteUint64(enc *bin.Encoder, v uint64) error {
	return enc.WriteUint64(v, binary.LittleEndian)
}

// ReadUint64 reads a little endian integer.
func ReadUint64(dec *bin.Decoder) (uint64, error) {
	return dec.ReadUint64(binary.LittleEndian)
}
