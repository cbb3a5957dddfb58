package custody

import (
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// ErrInvalidDerivation is returned when a proof does not reproduce the
// expected address.
var ErrInvalidDerivation = errors.Register(1100, "invalid derivation")

const (
	// MaxSeedLength is the longest accepted single seed.
	MaxSeedLength = solana.MaxSeedLength
	// maxSeeds leaves room for the proof byte.
	maxSeeds = solana.MaxSeeds - 1
)

// Salt binds a derived address to a single record. Each element is a
// separate seed.
type Salt [][]byte

// ProgramID returns the namespace used to derive addresses owned by a module.
func ProgramID(module string) barter.Address {
	return barter.NewCondition(module, "program", nil).Address()
}

// Derive computes the address for the given role and identity and its
// canonical proof.
func Derive(program barter.Address, role string, identity barter.Address, salt Salt) (barter.Address, uint8, error) {
	seeds, err := buildSeeds(role, identity, salt)
	if err != nil {
		return nil, 0, err
	}
	addr, proof, err := solana.FindProgramAddress(seeds, solana.PublicKeyFromBytes(program))
	if err != nil {
		return nil, 0, errors.Wrap(ErrInvalidDerivation, err.Error())
	}
	return addr.Bytes(), proof, nil
}

// Address recomputes the address produced by the given proof. An error is
// returned if the proof places the address on the curve.
func Address(program barter.Address, role string, identity barter.Address, salt Salt, proof uint8) (barter.Address, error) {
	seeds, err := buildSeeds(role, identity, salt)
	if err != nil {
		return nil, err
	}
	return createAddress(program, seeds, proof)
}

// Verify returns true if the proof reproduces the claimed address.
func Verify(program barter.Address, role string, identity barter.Address, salt Salt, proof uint8, claimed barter.Address) bool {
	addr, err := Address(program, role, identity, salt, proof)
	if err != nil {
		return false
	}
	return addr.Equals(claimed)
}

// Canonical returns an error unless the proof is the one Derive would
// return for these inputs.
func Canonical(program barter.Address, role string, identity barter.Address, salt Salt, proof uint8) (barter.Address, error) {
	addr, want, err := Derive(program, role, identity, salt)
	if err != nil {
		return nil, err
	}
	if proof != want {
		return nil, errors.Wrapf(ErrInvalidDerivation, "%s proof %d", role, proof)
	}
	return addr, nil
}

func createAddress(program barter.Address, seeds [][]byte, proof uint8) (barter.Address, error) {
	all := make([][]byte, 0, len(seeds)+1)
	all = append(all, seeds...)
	all = append(all, []byte{proof})
	addr, err := solana.CreateProgramAddress(all, solana.PublicKeyFromBytes(program))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDerivation, "proof %d: %s", proof, err)
	}
	return addr.Bytes(), nil
}

func buildSeeds(role string, identity barter.Address, salt Salt) ([][]byte, error) {
	seeds := make([][]byte, 0, 2+len(salt))
	seeds = append(seeds, []byte(role), identity)
	seeds = append(seeds, salt...)
	if len(seeds) > maxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d too long", i)
		}
	}
	return seeds, nil
}
