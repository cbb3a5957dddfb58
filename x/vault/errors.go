package vault

import (
	"github.com/iov-one/barter/errors"
)

var (
	ErrInsufficientLamports = errors.Register(1400, "insufficient lamports")
)
