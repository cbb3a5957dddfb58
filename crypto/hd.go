package crypto

import (
	"github.com/iov-one/barter/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultHDPath is the derivation path used for new wallets.
const DefaultHDPath = "m/44'/234'/0'"

// DeriveKey derives the private key at the given hardened path from the
// master seed, following SLIP-0010 for ed25519.
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrap(errors.ErrInput, "seed must be between 16 and 64 bytes")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key)
}
