package app

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
	"github.com/iov-one/barter/x/token"
	"github.com/iov-one/barter/x/vault"
)

const fieldSignatures = 1

// msgFields lists every message the application accepts under the field
// number it is encoded with. Numbers are grouped by module and must never be
// reused.
var msgFields = map[int]func() barter.Msg{
	51: func() barter.Msg { return &token.CreateMintMsg{} },
	52: func() barter.Msg { return &token.CreateAccountMsg{} },
	53: func() barter.Msg { return &token.MintToMsg{} },
	54: func() barter.Msg { return &token.TransferMsg{} },

	61: func() barter.Msg { return &escrow.InitializeMsg{} },
	62: func() barter.Msg { return &escrow.CreateMsg{} },
	63: func() barter.Msg { return &escrow.DepositMsg{} },
	64: func() barter.Msg { return &escrow.WithdrawMsg{} },
	65: func() barter.Msg { return &escrow.CloseMsg{} },
	66: func() barter.Msg { return &escrow.UpdateConfigurationMsg{} },

	71: func() barter.Msg { return &vault.InitializeMsg{} },
	72: func() barter.Msg { return &vault.DepositMsg{} },
	73: func() barter.Msg { return &vault.WithdrawMsg{} },
	74: func() barter.Msg { return &vault.CloseMsg{} },
	75: func() barter.Msg { return &vault.UpdateConfigurationMsg{} },
}

// fieldByPath is the reverse index of msgFields. Every message type has a
// distinct path.
var fieldByPath = func() map[string]int {
	idx := make(map[string]int, len(msgFields))
	for field, fn := range msgFields {
		path := fn().Path()
		if _, ok := idx[path]; ok {
			panic("duplicated message path: " + path)
		}
		idx[path] = field
	}
	return idx
}()

// Tx is the transaction format of the application. It carries exactly one
// message and the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        barter.Msg
}

// make sure tx fulfills all interfaces
var _ barter.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying msg.
func NewTx(msg barter.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (barter.Tx, error) {
	tx := new(Tx)
	err := tx.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, sig := range tx.Signatures {
		e.Message(fieldSignatures, sig)
	}
	if tx.Msg != nil {
		field, ok := fieldByPath[tx.Msg.Path()]
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "unsupported message %T", tx.Msg)
		}
		e.Message(field, tx.Msg)
	}
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, err := d.Field()
		if err != nil {
			return err
		}
		if field == fieldSignatures {
			var sig sigs.StdSignature
			if err := d.Message(&sig); err != nil {
				return errors.Wrap(err, "tx")
			}
			tx.Signatures = append(tx.Signatures, &sig)
			continue
		}
		fn, ok := msgFields[field]
		if !ok {
			if err := d.Skip(); err != nil {
				return errors.Wrap(err, "tx")
			}
			continue
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrInput, "tx must carry a single message")
		}
		msg := fn()
		if err := d.Message(msg); err != nil {
			return errors.Wrapf(err, "tx field %d", field)
		}
		tx.Msg = msg
	}
	return nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (barter.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "missing message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

// Sign appends the signature of signer for the given chain and sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
