package token

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
)

const optKey = "token"

// Genesis is the "token" section of the genesis file.
type Genesis struct {
	Controller       crowdsale.Address `json:"controller"`
	Admin            crowdsale.Address `json:"admin"`
	TransfersEnabled bool              `json:"transfers_enabled"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ crowdsale.Initializer = Initializer{}

// FromGenesis creates an empty ledger. Nothing is created when the section
// is missing.
func (Initializer) FromGenesis(opts crowdsale.Options, db crowdsale.KVStore) error {
	if opts[optKey] == nil {
		return nil
	}
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	return NewLedgerBucket().Save(db, &Ledger{
		Controller:       gen.Controller,
		Admin:            gen.Admin,
		TransfersEnabled: gen.TransfersEnabled,
		Supply:           &coin.Amount{},
	})
}
