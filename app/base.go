package app

import (
	"sort"
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// dealTagPrefix marks the deal lifecycle events emitted by the escrow
// handlers, for example escrow.deal.created.
const dealTagPrefix = "escrow.deal."

// BaseApp runs transactions through a handler on top of the storage and
// queries served by StoreApp. Every block it counts the transactions it
// delivered and the deal events they raised, and logs the totals in
// EndBlock.
type BaseApp struct {
	*StoreApp
	decoder barter.TxDecoder
	handler barter.Handler
	debug   bool
	block   *blockStats
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application that decodes transactions with decoder
// and executes them with handler. With debug set, error logs carry a stack
// trace.
func NewBaseApp(
	store *StoreApp,
	decoder barter.TxDecoder,
	handler barter.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
		block:    newBlockStats(),
	}
}

// DeliverTx executes the transaction against the deliver store.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		b.block.failed++
		return barter.DeliverTxError(err, b.debug)
	}

	path := barter.GetPath(tx)
	ctx := barter.WithLogInfo(b.BlockContext(), "call", "deliver_tx", "path", path)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err != nil {
		b.block.failed++
	} else {
		b.block.record(res.Tags)
	}
	return barter.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the check store. Nothing is
// counted, the mempool may check a transaction any number of times.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return barter.CheckTxError(err, b.debug)
	}

	ctx := barter.WithLogInfo(b.BlockContext(), "call", "check_tx", "path", barter.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return barter.CheckOrError(res, err, b.debug)
}

// BeginBlock sets up the block context and starts a fresh count.
func (b BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	res := b.StoreApp.BeginBlock(req)
	b.block.reset()
	b.Logger().Debug("Begin block", "height", req.Header.GetHeight())
	return res
}

// EndBlock logs what the block did to deals.
func (b BaseApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	res := b.StoreApp.EndBlock(req)
	keyvals := []interface{}{
		"height", req.Height,
		"delivered", b.block.delivered,
		"failed", b.block.failed,
	}
	for _, ev := range b.block.eventNames() {
		keyvals = append(keyvals, ev, b.block.events[ev])
	}
	b.Logger().Info("End block", keyvals...)
	return res
}

// loadTx decodes the raw transaction. A decoder panic is returned as an
// error.
func (b BaseApp) loadTx(txBytes []byte) (tx barter.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}

// blockStats counts transactions within the current block.
// ABCI calls BeginBlock, DeliverTx and EndBlock from the consensus
// connection only, so no locking is needed.
type blockStats struct {
	delivered int
	failed    int
	// events maps a deal event name, without the escrow.deal. prefix,
	// to the number of transactions that raised it.
	events map[string]int
}

func newBlockStats() *blockStats {
	return &blockStats{events: make(map[string]int)}
}

func (s *blockStats) reset() {
	s.delivered = 0
	s.failed = 0
	s.events = make(map[string]int)
}

func (s *blockStats) record(tags []common.KVPair) {
	s.delivered++
	for _, t := range tags {
		key := string(t.Key)
		if strings.HasPrefix(key, dealTagPrefix) {
			s.events[strings.TrimPrefix(key, dealTagPrefix)]++
		}
	}
}

func (s *blockStats) eventNames() []string {
	names := make([]string, 0, len(s.events))
	for name := range s.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
