package server

import (
	"github.com/iov-one/barter/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// Options are passed to the application generator.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	// InMemory keeps the state in memory only. Nothing survives a restart.
	InMemory bool
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process is signalled. It does not return once the server runs.
func StartCmd(gen AppGenerator, logger log.Logger, home string, conf Config) error {
	svr, logger, err := startServer(gen, logger, home, conf)
	if err != nil {
		return err
	}

	cmn.TrapSignal(logger, func() {
		// Cleanup
		svr.Stop()
	})

	// Wait forever
	select {}
}

// startServer builds the application and starts listening on the
// configured address. The returned service is running.
func startServer(gen AppGenerator, logger log.Logger, home string, conf Config) (cmn.Service, log.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "config")
	}
	logger, err := conf.Logger(logger)
	if err != nil {
		return nil, nil, err
	}

	// Generate the app in the proper dir
	app, err := gen(&Options{
		Home:     home,
		Logger:   logger,
		Debug:    conf.Debug,
		InMemory: conf.DBBackend == BackendMemDB,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)

	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, nil, errors.Wrap(err, "start server")
	}
	return svr, logger, nil
}
