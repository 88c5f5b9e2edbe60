package server

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagForce   = "force"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will add the app_state generated by gen to the genesis file of a
// tendermint home directory. The genesis file must have been created by
// "tendermint init" before. An existing app_state is overwritten only when
// the force flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	flags := pflag.NewFlagSet("init", pflag.ContinueOnError)
	force := flags.Bool(flagForce, false, "overwrite existing app_state")
	if err := flags.Parse(args); err != nil {
		return errors.Wrapf(errors.ErrInput, "flags: %s", err)
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	logger.Info("Loading genesis", "path", genFile)

	doc, err := readGenesis(genFile)
	if err != nil {
		return err
	}
	if !*force && len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" {
		return errors.Wrapf(errors.ErrState, "%s already set in %s", appStateKey, genFile)
	}

	options, err := gen(flags.Args())
	if err != nil {
		return errors.Wrap(err, "generate app state")
	}
	doc[appStateKey] = options
	if err := writeGenesis(genFile, doc); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func readGenesis(path string) (genesisDoc, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "genesis: %s", err)
	}
	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis %s: %s", path, err)
	}
	return doc, nil
}

func writeGenesis(path string, doc genesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if err := ioutil.WriteFile(path, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write genesis: %s", err)
	}
	return nil
}
