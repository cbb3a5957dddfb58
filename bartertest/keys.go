package bartertest

import (
	"crypto/rand"
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/store/iavl"
)

// NewKey returns a random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() barter.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a random address.
func RandomAddr(t testing.TB) barter.Address {
	t.Helper()
	addr := make(barter.Address, barter.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return addr
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) barter.Address {
	t.Helper()

	addr, err := barter.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data, the same as a running node does.
func CommitKVStore(t testing.TB) (db iavl.CommitStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "barter")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db = iavl.NewCommitStore(dbpath, "db")
	return db, func() { os.RemoveAll(dbpath) }
}
