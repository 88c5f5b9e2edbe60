package sale

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ crowdsale.Initializer = Initializer{}

// FromGenesis stores the sale parameters given in the "sale" section and
// the configuration from "conf.sale". Nothing is created when the section
// is missing.
func (Initializer) FromGenesis(opts crowdsale.Options, db crowdsale.KVStore) error {
	if opts[pkg] == nil {
		return nil
	}
	var p Params
	if err := opts.ReadOptions(pkg, &p); err != nil {
		return err
	}
	if err := NewParamsBucket().Save(db, &p); err != nil {
		return errors.Wrap(err, "sale params")
	}
	if err := NewStateBucket().Save(db, &State{Raised: &coin.Amount{}}); err != nil {
		return errors.Wrap(err, "sale state")
	}
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, pkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return errors.Wrap(err, "configuration")
	}
}
