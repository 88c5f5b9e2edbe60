package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/commands/server"
	"github.com/mixbytes/crowdsale/crypto"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x/cash"
	"github.com/mixbytes/crowdsale/x/funds"
	"github.com/mixbytes/crowdsale/x/multiowned"
	"github.com/mixbytes/crowdsale/x/sale"
	"github.com/mixbytes/crowdsale/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DevGate is the name of the gate controlling a dev mode sale.
const DevGate = "board"

// DevOwners is the number of keys derived for the dev gate. Two of them
// must confirm an action.
const DevOwners = 3

// GenInitOptions will produce the app state of a dev mode sale. The first
// argument is a hex encoded seed the owner keys are derived from, the owner
// with index n is at crypto.KeyPath(n). A random seed is generated and
// printed when none is given. The optional second argument is the address
// of an investor wallet funded with 100 ether.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var seed []byte
	if len(args) > 0 {
		s, err := hex.DecodeString(args[0])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "seed: %s", err)
		}
		seed = s
	} else {
		s, err := crypto.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
		fmt.Printf("seed: %x\n", seed)
	}

	gate := multiowned.Gate{Name: DevGate, Required: 2}
	for i := uint32(0); i < DevOwners; i++ {
		key, err := crypto.DeriveKey(seed, crypto.KeyPath(i))
		if err != nil {
			return nil, err
		}
		gate.Owners = append(gate.Owners, key.PublicKey().Address())
	}

	var wallets []cash.GenesisAccount
	if len(args) > 1 {
		addr, err := crowdsale.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, cash.GenesisAccount{Address: addr, Balance: coin.MustParse("100ether")})
	}

	return DevGenesis(gate, wallets, time.Now().UTC())
}

// DevGenesis returns the app state of a week long sale starting one hour
// after now, controlled by the given gate.
func DevGenesis(gate multiowned.Gate, wallets []cash.GenesisAccount, now time.Time) (json.RawMessage, error) {
	start := now.Truncate(time.Hour).Add(time.Hour)
	admin := multiowned.Address(gate.Name)
	state := map[string]interface{}{
		"cash":       wallets,
		"multiowned": multiowned.Genesis{Gates: []multiowned.Gate{gate}},
		"funds":      funds.Genesis{Controller: sale.Address(), Admin: admin},
		"token":      token.Genesis{Controller: sale.Address(), Admin: admin},
		"sale": sale.Params{
			Start:   crowdsale.AsUnixTime(start),
			End:     crowdsale.AsUnixTime(start.Add(7 * 24 * time.Hour)),
			HardCap: coin.MustParse("1000ether"),
			MinCap:  coin.MustParse("100ether"),
			Rate:    1000,
			Tiers: []*sale.BonusTier{
				{Until: crowdsale.AsUnixTime(start.Add(24 * time.Hour)), Percent: 20},
			},
			Gate:       gate.Name,
			OwnerBonus: coin.MustParse("1ether"),
		},
		"conf": map[string]interface{}{
			"sale":       sale.Configuration{Owner: admin},
			"multiowned": multiowned.Configuration{Owner: admin, Expiry: multiowned.DefaultExpiry},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "app state: %s", err)
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(opts *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if opts.Home != "" {
		dbPath = filepath.Join(opts.Home, "sale.db")
	}

	application, err := Application("saled", Stack(), TxDecoder, dbPath, opts.Debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(opts.Logger)
	return application, nil
}
