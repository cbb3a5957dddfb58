package token

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/x"
)

// Authority decides whether funds owned by an address may be moved.
//
// A custody.Signer is an Authority over the derived address it controls.
type Authority interface {
	Authorize(ctx barter.Context, owner barter.Address) bool
}

// SignerAuthority authorizes owners that signed the current transaction.
type SignerAuthority struct {
	auth x.Authenticator
}

var _ Authority = SignerAuthority{}

func NewSignerAuthority(auth x.Authenticator) SignerAuthority {
	return SignerAuthority{auth: auth}
}

func (a SignerAuthority) Authorize(ctx barter.Context, owner barter.Address) bool {
	return a.auth.HasAddress(ctx, owner)
}
