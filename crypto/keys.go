/*
Package crypto holds the ed25519 keys used to sign transactions, their
wire representation and the hierarchical derivation of keys from a seed.
*/
package crypto

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is the wire representation of a public key. Only ed25519 keys
// are supported.
type PublicKey struct {
	Ed25519 []byte
}

var _ barter.Persistent = (*PublicKey)(nil)

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, p.Ed25519).Result()
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	*p = PublicKey{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			p.Ed25519, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "public key")
		}
	}
	return nil
}

// Validate ensures the key has the size of an ed25519 public key.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key size %d", len(p.Ed25519))
	}
	return nil
}

// Address is the address of the signature condition of this key.
func (p *PublicKey) Address() barter.Address {
	return p.Condition().Address()
}

// PrivateKey is the wire representation of a private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ barter.Persistent = (*PrivateKey)(nil)

func (p *PrivateKey) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, p.Ed25519).Result()
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	*p = PrivateKey{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			p.Ed25519, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "private key")
		}
	}
	return nil
}

// Signature is the wire representation of a signature.
type Signature struct {
	Ed25519 []byte
}

var _ barter.Persistent = (*Signature)(nil)

func (s *Signature) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, s.Ed25519).Result()
}

func (s *Signature) Unmarshal(raw []byte) error {
	*s = Signature{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Ed25519, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "signature")
		}
	}
	return nil
}
