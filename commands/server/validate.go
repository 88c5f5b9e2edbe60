package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
)

// ValidateGenesis runs the initializer over the app_state of every given
// genesis file. The resulting state lives in memory and is thrown away, so
// the command is safe to run against a live home directory.
func ValidateGenesis(ini crowdsale.Initializer, paths []string) error {
	if len(paths) == 0 {
		return errors.Wrap(errors.ErrInput, "no genesis file given")
	}
	for _, p := range paths {
		if err := loadGenesisFile(ini, p); err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

type genesisAppState struct {
	AppState crowdsale.Options `json:"app_state"`
}

func loadGenesisFile(ini crowdsale.Initializer, path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "read genesis: %s", err)
	}
	var g genesisAppState
	if err := json.Unmarshal(raw, &g); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode genesis: %s", err)
	}
	return errors.Wrap(ini.FromGenesis(g.AppState, store.MemStore()), "initialize")
}
