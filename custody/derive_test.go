package custody

import (
	"bytes"
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveVerifyRoundTrip(t *testing.T) {
	program := ProgramID("escrow")
	maker := barter.NewAddress([]byte("maker"))
	taker := barter.NewAddress([]byte("taker"))
	salt := Salt{maker, {0, 0, 0, 0, 0, 0, 0, 1}}

	addr, proof, err := Derive(program, "holding", maker, salt)
	require.NoError(t, err)
	require.NoError(t, addr.Validate())
	assert.False(t, solana.IsOnCurve(addr), "derived address must not have a private key")

	assert.True(t, Verify(program, "holding", maker, salt, proof, addr))

	again, againProof, err := Derive(program, "holding", maker, salt)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, proof, againProof)

	got, err := Address(program, "holding", maker, salt, proof)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	// A proof of another identity or role never reproduces the address.
	otherAddr, otherProof, err := Derive(program, "holding", taker, salt)
	require.NoError(t, err)
	assert.False(t, Verify(program, "holding", maker, salt, otherProof, otherAddr))
	assert.False(t, Verify(program, "holding", taker, salt, proof, addr))
	assert.False(t, Verify(program, "obligation", maker, salt, proof, addr))
	assert.False(t, Verify(ProgramID("vault"), "holding", maker, salt, proof, addr))
	assert.False(t, Verify(program, "holding", maker, Salt{maker, {2}}, proof, addr))
}

func TestDeriveDistinctRoles(t *testing.T) {
	program := ProgramID("escrow")
	who := barter.NewAddress([]byte("who"))

	seen := make(map[string]string)
	for _, role := range []string{"deal", "controller", "obligation", "holding"} {
		addr, _, err := Derive(program, role, who, Salt{who})
		require.NoError(t, err)
		if prev, ok := seen[string(addr)]; ok {
			t.Fatalf("roles %q and %q share an address", prev, role)
		}
		seen[string(addr)] = role
	}
}

func TestCanonicalProof(t *testing.T) {
	program := ProgramID("token")
	owner := barter.NewAddress([]byte("owner"))
	mint := barter.NewAddress([]byte("mint"))
	salt := Salt{mint}

	addr, proof, err := Derive(program, "account", owner, salt)
	require.NoError(t, err)

	got, err := Canonical(program, "account", owner, salt, proof)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	// Find another proof that yields a valid, but not canonical, address.
	for p := int(proof) - 1; p >= 0; p-- {
		other, err := Address(program, "account", owner, salt, uint8(p))
		if err != nil {
			continue
		}
		assert.False(t, other.Equals(addr))
		_, err = Canonical(program, "account", owner, salt, uint8(p))
		assert.True(t, ErrInvalidDerivation.Is(err), "unexpected error: %+v", err)
		return
	}
	t.Fatal("no alternative proof found")
}

func TestInvalidSeeds(t *testing.T) {
	program := ProgramID("escrow")
	who := barter.NewAddress([]byte("who"))

	cases := map[string]struct {
		role    string
		salt    Salt
		wantErr *errors.Error
	}{
		"seed too long": {
			role:    "holding",
			salt:    Salt{bytes.Repeat([]byte{1}, MaxSeedLength+1)},
			wantErr: errors.ErrInput,
		},
		"too many seeds": {
			role:    "holding",
			salt:    make(Salt, 14),
			wantErr: errors.ErrInput,
		},
		"maximum seeds": {
			role: "holding",
			salt: make(Salt, 13),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, err := Derive(program, tc.role, who, tc.salt)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestSigner(t *testing.T) {
	program := ProgramID("escrow")
	maker := barter.NewAddress([]byte("maker"))
	salt := Salt{maker}

	addr, proof, err := Derive(program, "controller", maker, salt)
	require.NoError(t, err)

	s, err := NewSigner(program, "controller", maker, salt, proof)
	require.NoError(t, err)
	assert.Equal(t, addr, s.Address())

	ctx := context.Background()
	assert.True(t, s.Authorize(ctx, addr))
	assert.False(t, s.Authorize(ctx, maker))

	var none *Signer
	assert.False(t, none.Authorize(ctx, addr))
}
