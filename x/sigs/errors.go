package sigs

import (
	"github.com/iov-one/barter/errors"
)

// ErrInvalidSequence is returned when a signature sequence does not match
// the signer's current nonce.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
