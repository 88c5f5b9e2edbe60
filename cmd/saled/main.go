package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mixbytes/crowdsale"
	saled "github.com/mixbytes/crowdsale/cmd/saled/app"
	"github.com/mixbytes/crowdsale/commands/server"
	"github.com/mixbytes/crowdsale/crypto"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log-level"
)

func helpMessage() {
	fmt.Println("saled")
	fmt.Println("          Crowdsale ABCI application")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("keys      Derive the keys of a seed")
	fmt.Println("validate  Check the app_state of genesis files")
	fmt.Println("version   Print the app version")
	fmt.Println("")
	fmt.Println("Defaults of the flags are read from SALED_HOME, SALED_LOG_LEVEL,")
	fmt.Println("SALED_BIND and SALED_METRICS, optionally set in a .env file.")
	fmt.Println("")
	pflag.PrintDefaults()
}

func main() {
	// A missing .env file is fine, the environment is used as is.
	_ = godotenv.Load()

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".saled")
	home := pflag.String(flagHome, env("SALED_HOME", defaultHome), "directory to store files under")
	level := pflag.String(flagLogLevel, env("SALED_LOG_LEVEL", "info"), "one of debug, info, error or none")
	pflag.CommandLine.SetInterspersed(false)
	pflag.Usage = helpMessage
	pflag.Parse()

	if pflag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := newLogger(*level)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}

	cmd := pflag.Arg(0)
	rest := pflag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(saled.GenInitOptions, logger, *home, rest)
	case "start":
		defaults := server.Options{
			Bind:    env("SALED_BIND", "tcp://localhost:26658"),
			Metrics: os.Getenv("SALED_METRICS"),
		}
		var opts *server.Options
		opts, err = server.ParseStartFlags(*home, logger, defaults, rest)
		if err == nil {
			err = server.StartCmd(saled.GenerateApp, opts)
		}
	case "keys":
		err = keysCmd(rest)
	case "validate":
		err = server.ValidateGenesis(saled.Initializers(), rest)
	case "version":
		fmt.Println(crowdsale.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, opt).With("module", "saled"), nil
}

type keyInfo struct {
	Path    string             `json:"path"`
	Address crowdsale.Address  `json:"address"`
	PubKey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
}

// keysCmd prints the keys derived from a hex encoded seed, as used by
// the init command for the owners of the dev gate.
func keysCmd(args []string) error {
	flags := pflag.NewFlagSet("keys", pflag.ContinueOnError)
	count := flags.Uint32("count", saled.DevOwners, "number of keys to derive")
	if err := flags.Parse(args); err != nil {
		return errors.Wrapf(errors.ErrInput, "flags: %s", err)
	}
	if flags.NArg() != 1 {
		return errors.Wrap(errors.ErrInput, "usage: keys [--count n] <hex seed>")
	}
	seed, err := hex.DecodeString(flags.Arg(0))
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "seed: %s", err)
	}

	keys := make([]keyInfo, 0, *count)
	for i := uint32(0); i < *count; i++ {
		path := crypto.KeyPath(i)
		key, err := crypto.DeriveKey(seed, path)
		if err != nil {
			return err
		}
		pub := key.PublicKey()
		keys = append(keys, keyInfo{Path: path, Address: pub.Address(), PubKey: pub, Secret: key})
	}
	out, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "keys: %s", err)
	}
	fmt.Println(string(out))
	return nil
}
