package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/mr-tron/base58"
)

// GenerateKeyCmd creates a random ed25519 key and prints its public key in
// base58 and the secret as a byte array that wallets can import.
func GenerateKeyCmd(w io.Writer) error {
	return printKey(w, crypto.GenPrivKeyEd25519())
}

// DeriveKeyCmd derives the key at given hardened path from a hex encoded
// seed.
func DeriveKeyCmd(w io.Writer, seedHex, path string) error {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
	}
	if path == "" {
		path = crypto.DefaultHDPath
	}
	key, err := crypto.DeriveKey(seed, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Path: %s\n", path)
	return printKey(w, key)
}

func printKey(w io.Writer, key *crypto.PrivateKey) error {
	pub := key.PublicKey()
	secret, err := FormatBytes(key.Ed25519)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Public key: %s\n", base58.Encode(pub.Ed25519))
	fmt.Fprintf(w, "Address: %s\n", pub.Address())
	fmt.Fprintf(w, "Secret key: %s\n", secret)
	return nil
}

// ConvertCmd converts between the base58 and the byte array representation
// of a key. Input starting with "[" is read as a byte array.
func ConvertCmd(w io.Writer, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errors.Wrap(errors.ErrEmpty, "input")
	}
	if strings.HasPrefix(input, "[") {
		raw, err := ParseBytes(input)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, base58.Encode(raw))
		return nil
	}
	raw, err := base58.Decode(input)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "base58: %s", err)
	}
	out, err := FormatBytes(raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

// FormatBytes renders raw as a JSON array of numbers.
func FormatBytes(raw []byte) (string, error) {
	nums := make([]int, len(raw))
	for i, b := range raw {
		nums[i] = int(b)
	}
	out, err := json.Marshal(nums)
	if err != nil {
		return "", errors.Wrap(err, "byte array")
	}
	return string(out), nil
}

// ParseBytes reads a JSON array of numbers in the 0-255 range.
func ParseBytes(s string) ([]byte, error) {
	var nums []int
	if err := json.Unmarshal([]byte(s), &nums); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "byte array: %s", err)
	}
	raw := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, errors.Wrapf(errors.ErrInput, "byte array: %d at position %d", n, i)
		}
		raw[i] = byte(n)
	}
	return raw, nil
}
