package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/cmd/barterd/app"
	"github.com/iov-one/barter/commands"
	"github.com/iov-one/barter/commands/server"
	"github.com/iov-one/barter/crypto"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/urfave/cli/v2"
)

const flagHome = "home"

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "barter")

	if err := newApp(logger).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func newApp(logger log.Logger) *cli.App {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".barter")

	return &cli.App{
		Name:    "barterd",
		Usage:   "Two-party token escrow node",
		Version: barter.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagHome,
				Value: defaultHome,
				Usage: "directory to store files under",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Initialize app options in genesis file",
				ArgsUsage: "[symbol] [address]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "overwrite",
						Aliases: []string{"i"},
						Usage:   "replace an existing app state",
					},
				},
				Action: func(c *cli.Context) error {
					return server.InitCmd(app.GenInitOptions, logger, c.String(flagHome), c.Bool("overwrite"), c.Args().Slice())
				},
			},
			{
				Name:  "start",
				Usage: "Run the abci server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bind",
						Usage: "address server listens on, overrides the config file",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "call stack returned on error",
					},
				},
				Action: func(c *cli.Context) error {
					home := c.String(flagHome)
					conf, err := server.LoadConfig(home)
					if err != nil {
						return err
					}
					if c.IsSet("bind") {
						conf.Bind = c.String("bind")
					}
					if c.IsSet("debug") {
						conf.Debug = c.Bool("debug")
					}
					return server.StartCmd(app.GenerateApp, logger, home, conf)
				},
			},
			{
				Name:  "keys",
				Usage: "Manage ed25519 keys",
				Subcommands: []*cli.Command{
					{
						Name:  "generate",
						Usage: "Generate a random key",
						Action: func(c *cli.Context) error {
							return commands.GenerateKeyCmd(c.App.Writer)
						},
					},
					{
						Name:      "derive",
						Usage:     "Derive a key from a hex encoded seed",
						ArgsUsage: "<seed>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "path",
								Value: crypto.DefaultHDPath,
								Usage: "hardened derivation path",
							},
						},
						Action: func(c *cli.Context) error {
							if c.NArg() != 1 {
								return cli.Exit("expected exactly one seed argument", 2)
							}
							return commands.DeriveKeyCmd(c.App.Writer, c.Args().First(), c.String("path"))
						},
					},
					{
						Name:      "convert",
						Usage:     "Convert a key between base58 and byte array",
						ArgsUsage: "<base58 or [byte, ...]>",
						Action: func(c *cli.Context) error {
							if c.NArg() != 1 {
								return cli.Exit("expected exactly one key argument", 2)
							}
							return commands.ConvertCmd(c.App.Writer, c.Args().First())
						},
					},
				},
			},
			{
				Name:      "testgen",
				Usage:     "Write example encodings",
				ArgsUsage: "[directory]",
				Action: func(c *cli.Context) error {
					return commands.TestGenCmd(app.Examples(), c.Args().Slice())
				},
			},
		},
	}
}
