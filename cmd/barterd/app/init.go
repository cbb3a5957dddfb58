package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/commands/server"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/token"
	"github.com/iov-one/barter/x/vault"
	abci "github.com/tendermint/tendermint/abci/types"
)

const (
	defaultSymbol   = "BRT"
	defaultDecimals = 9
	genesisSupply   = 1000000000000
)

var isSymbol = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,9}$`).MatchString

// GenesisState is the application state written into the genesis file.
type GenesisState struct {
	Conf  GenesisConf   `json:"conf"`
	Token token.Genesis `json:"token"`
}

// GenesisConf holds the module configurations.
type GenesisConf struct {
	Escrow escrow.Configuration `json:"escrow"`
	Vault  vault.Configuration  `json:"vault"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// The first argument is the symbol of the issued asset, the second one the
// hex address of the account owning all the supply and the configurations.
// A new key is generated when no address is given.
func GenInitOptions(args []string) (json.RawMessage, error) {
	symbol := defaultSymbol
	if len(args) > 0 {
		symbol = args[0]
		if !isSymbol(symbol) {
			return nil, errors.Wrapf(errors.ErrInput, "invalid symbol %q", symbol)
		}
	}

	var addr barter.Address
	if len(args) > 1 {
		a, err := barter.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	state, err := GenesisStateFor(symbol, addr)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenesisStateFor returns a state issuing symbol with addr as the authority
// and the owner of the whole supply. Vaults hold the issued asset and the
// storage reserve is disabled.
func GenesisStateFor(symbol string, addr barter.Address) (*GenesisState, error) {
	asset, err := token.MintAddress(addr, symbol)
	if err != nil {
		return nil, err
	}
	return &GenesisState{
		Conf: GenesisConf{
			Escrow: escrow.Configuration{Owner: addr},
			Vault:  vault.Configuration{Owner: addr, Asset: asset},
		},
		Token: token.Genesis{
			Mints: []token.GenesisMint{
				{Symbol: symbol, Authority: addr, Decimals: defaultDecimals},
			},
			Accounts: []token.GenesisAccount{
				{Owner: addr, Symbol: symbol, Amount: genesisSupply},
			},
		},
	}, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	var dbPath string
	if !options.InMemory {
		dbPath = filepath.Join(options.Home, "barter.db")
	}

	application, err := Application("barter", Stack(), TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}

type output struct {
	Address barter.Address `json:"address"`
	Pubkey  string         `json:"pub_key"`
	Secret  []int          `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give tokens to this address and
// import the secret in a wallet to use them
func GenerateCoinKey() (barter.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	secret := make([]int, len(privKey.Ed25519))
	for i, b := range privKey.Ed25519 {
		secret[i] = int(b)
	}
	out := output{
		Address: addr,
		Pubkey:  barter.Address(pubKey.Ed25519).Base58(),
		Secret:  secret,
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "keys")
	}
	return addr, string(keys), nil
}
