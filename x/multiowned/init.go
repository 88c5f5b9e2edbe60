package multiowned

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/gconf"
)

// Genesis is the "multiowned" section of the genesis file.
type Genesis struct {
	Gates []Gate `json:"gates"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ crowdsale.Initializer = Initializer{}

// FromGenesis creates the gates. The first listed owner of a gate is its
// creator and the order of owners is kept.
func (Initializer) FromGenesis(opts crowdsale.Options, db crowdsale.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, pkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "configuration")
	}

	var gen Genesis
	if err := opts.ReadOptions(pkg, &gen); err != nil {
		return err
	}
	bucket := NewGateBucket()
	for i := range gen.Gates {
		g := &gen.Gates[i]
		exists, err := bucket.Has(db, []byte(g.Name))
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(errors.ErrDuplicate, "gate %q", g.Name)
		}
		if err := bucket.Save(db, g); err != nil {
			return errors.Wrapf(err, "gate %q", g.Name)
		}
	}
	return nil
}
