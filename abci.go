package barter

import (
	"fmt"

	"github.com/iov-one/barter/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is what a handler returns for a delivered transaction.
// Failures are reported through the error return, never through a result.
type DeliverResult struct {
	// Data is returned to the client, for example the address of a
	// created deal.
	Data []byte
	// Log is a human readable note.
	Log string
	// Tags are indexed by tendermint, clients subscribe to deal events
	// with them.
	Tags []common.KVPair
}

// Tag appends a key value pair to the result tags.
func (d *DeliverResult) Tag(key string, value []byte) *DeliverResult {
	d.Tags = append(d.Tags, common.KVPair{Key: []byte(key), Value: value})
	return d
}

// ToABCI converts the result into a successful abci response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

// CheckResult is what a handler returns for a checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the upper bound of work the transaction may cost.
	// Decorators add their own cost to it.
	GasAllocated int64
}

// ToABCI converts the result into a successful abci response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError returns the abci response for a delivery that produced
// either a result or an error.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the abci response for a check that produced either
// a result or an error.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError converts err into a failed delivery. In debug mode the
// log carries the stack trace.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txErrorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts err into a failed check. In debug mode the log
// carries the stack trace.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txErrorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func txErrorInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, fmt.Sprintf("cannot %s tx: %s", phase, log)
}
