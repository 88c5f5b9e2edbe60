package funds

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

const optKey = "funds"

// Genesis is the "funds" section of the genesis file.
type Genesis struct {
	Controller crowdsale.Address `json:"controller"`
	Admin      crowdsale.Address `json:"admin"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ crowdsale.Initializer = Initializer{}

// FromGenesis creates the escrow in the gathering state. Nothing is
// created when the section is missing.
func (Initializer) FromGenesis(opts crowdsale.Options, db crowdsale.KVStore) error {
	if opts[optKey] == nil {
		return nil
	}
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	reg := &Registry{
		State:      Gathering,
		Controller: gen.Controller,
		Admin:      gen.Admin,
		Total:      &coin.Amount{},
	}
	if err := NewRegistryBucket().Save(db, reg); err != nil {
		return errors.Wrap(err, "escrow registry")
	}
	return nil
}
