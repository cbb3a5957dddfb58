package token

import (
	"github.com/iov-one/barter/errors"
)

var (
	ErrInsufficientBalance = errors.Register(1200, "insufficient balance")
	ErrTypeMismatch        = errors.Register(1201, "asset type mismatch")
)
