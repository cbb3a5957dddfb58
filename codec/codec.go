/*
Package codec implements the protobuf wire format used by all messages and
transactions. Every message describes its fields explicitly in its Marshal
and Unmarshal methods, so the encoding stays compatible with a .proto
declaration of the same field numbers.

	func (m *CreateMsg) Marshal() ([]byte, error) {
		return codec.NewEncoder().
			Uint64(1, m.Nonce).
			Bytes(2, m.Taker).
			Data(), nil
	}
*/
package codec

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Wire types used by the encoding.
const (
	WireVarint  = 0
	WireFixed64 = 1
	WireBytes   = 2
	WireFixed32 = 5
)

// Encoder serializes fields in protobuf wire format. Zero values are
// omitted, as in proto3.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field int, wire int) {
	e.setErr(e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire)))
}

func (e *Encoder) setErr(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// Uint64 writes a varint field.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireVarint)
	e.setErr(e.buf.EncodeVarint(v))
	return e
}

// Int64 writes a varint field.
func (e *Encoder) Int64(field int, v int64) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Bool writes a varint field holding 1 for true.
func (e *Encoder) Bool(field int, v bool) *Encoder {
	if v {
		return e.Uint64(field, 1)
	}
	return e
}

// Bytes writes a length delimited field.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	if len(b) == 0 {
		return e
	}
	e.key(field, WireBytes)
	e.setErr(e.buf.EncodeRawBytes(b))
	return e
}

// RepeatedBytes writes one length delimited field per element. Empty
// elements are kept so that positions survive the encoding.
func (e *Encoder) RepeatedBytes(field int, items [][]byte) *Encoder {
	for _, b := range items {
		e.key(field, WireBytes)
		e.setErr(e.buf.EncodeRawBytes(b))
	}
	return e
}

// String writes a length delimited field.
func (e *Encoder) String(field int, s string) *Encoder {
	if s == "" {
		return e
	}
	e.key(field, WireBytes)
	e.setErr(e.buf.EncodeStringBytes(s))
	return e
}

// Message writes an embedded message. Unlike scalar fields a message is
// always written, so that its presence survives the encoding even when all
// of its fields hold zero values. Nil messages are skipped.
func (e *Encoder) Message(field int, m barter.Marshaller) *Encoder {
	if isNil(m) {
		return e
	}
	raw, err := m.Marshal()
	if err != nil {
		e.setErr(err)
		return e
	}
	e.key(field, WireBytes)
	e.setErr(e.buf.EncodeRawBytes(raw))
	return e
}

func isNil(m barter.Marshaller) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Data returns the serialized fields.
func (e *Encoder) Data() []byte {
	return e.buf.Bytes()
}

// Result returns the serialized fields and the first error that happened
// while encoding.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// Decoder reads fields in protobuf wire format.
type Decoder struct {
	data []byte
	wire int
}

// NewDecoder returns a decoder reading given data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// More returns true if there are fields left to read.
func (d *Decoder) More() bool {
	return len(d.data) > 0
}

// Field reads the next field key and returns its number. The value must be
// consumed with one of the value methods or Skip.
func (d *Decoder) Field() (int, error) {
	k, err := d.varint()
	if err != nil {
		return 0, errors.Wrap(err, "field key")
	}
	field := int(k >> 3)
	if field <= 0 {
		return 0, errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
	}
	d.wire = int(k & 0x7)
	return field, nil
}

func (d *Decoder) varint() (uint64, error) {
	x, n := proto.DecodeVarint(d.data)
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	d.data = d.data[n:]
	return x, nil
}

func (d *Decoder) expect(wire int) error {
	if d.wire != wire {
		return errors.Wrapf(errors.ErrInput, "wire type %d, expected %d", d.wire, wire)
	}
	return nil
}

// Uint64 reads a varint value.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.expect(WireVarint); err != nil {
		return 0, err
	}
	return d.varint()
}

// Int64 reads a varint value.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

// Bool reads a varint value as a boolean.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint64()
	return v != 0, err
}

// Bytes reads a length delimited value. The returned slice is a copy.
func (d *Decoder) Bytes() ([]byte, error) {
	raw, err := d.raw()
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}

// String reads a length delimited value.
func (d *Decoder) String() (string, error) {
	raw, err := d.raw()
	return string(raw), err
}

// Message reads an embedded message into dest.
func (d *Decoder) Message(dest barter.Persistent) error {
	raw, err := d.raw()
	if err != nil {
		return err
	}
	return dest.Unmarshal(raw)
}

func (d *Decoder) raw() ([]byte, error) {
	if err := d.expect(WireBytes); err != nil {
		return nil, err
	}
	size, err := d.varint()
	if err != nil {
		return nil, err
	}
	if size > uint64(len(d.data)) {
		return nil, errors.Wrapf(errors.ErrInput, "length %d exceeds data", size)
	}
	raw := d.data[:size]
	d.data = d.data[size:]
	return raw, nil
}

// Skip ignores the value of an unknown field.
func (d *Decoder) Skip() error {
	var n int
	switch d.wire {
	case WireVarint:
		_, err := d.varint()
		return err
	case WireBytes:
		_, err := d.raw()
		return err
	case WireFixed64:
		n = 8
	case WireFixed32:
		n = 4
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", d.wire)
	}
	if len(d.data) < n {
		return errors.Wrap(errors.ErrInput, "truncated field")
	}
	d.data = d.data[n:]
	return nil
}
