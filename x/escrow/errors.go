package escrow

import (
	"github.com/iov-one/barter/errors"
)

var (
	ErrIncompleteDeal      = errors.Register(1300, "incomplete deal")
	ErrInvalidUser         = errors.Register(1301, "invalid user")
	ErrAccountContainsFund = errors.Register(1302, "account contains fund")
	ErrAlreadySettled      = errors.Register(1303, "already settled")
)
