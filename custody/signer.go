package custody

import (
	"github.com/iov-one/barter"
)

// Signer proves authority over a derived address. It holds the seeds and
// proof that reproduce the address, in place of a signature. Only the module
// owning the program can build one for its own accounts, and it should never
// hand it out.
type Signer struct {
	program barter.Address
	seeds   [][]byte
	proof   uint8
	address barter.Address
}

// NewSigner returns a signer for the address reproduced by the given proof.
func NewSigner(program barter.Address, role string, identity barter.Address, salt Salt, proof uint8) (*Signer, error) {
	seeds, err := buildSeeds(role, identity, salt)
	if err != nil {
		return nil, err
	}
	addr, err := createAddress(program, seeds, proof)
	if err != nil {
		return nil, err
	}
	return &Signer{
		program: program,
		seeds:   seeds,
		proof:   proof,
		address: addr,
	}, nil
}

// Address returns the derived address this signer controls.
func (s *Signer) Address() barter.Address {
	return s.address
}

// Authorize returns true if owner is the address controlled by this signer.
// The address is recomputed, so a signer cannot be pointed at another
// account after it was built.
func (s *Signer) Authorize(ctx barter.Context, owner barter.Address) bool {
	if s == nil {
		return false
	}
	addr, err := createAddress(s.program, s.seeds, s.proof)
	if err != nil {
		return false
	}
	return addr.Equals(owner)
}
