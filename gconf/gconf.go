package gconf

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// ReadStore is a subset of crowdsale.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of crowdsale.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is implemented by every configuration object.
type Configuration interface {
	crowdsale.Persistent
	Validate() error
}

// OwnedConfig is a configuration that declares who can update it.
type OwnedConfig interface {
	Configuration
	GetOwner() crowdsale.Address
}

// Key returns the database key of the configuration of given extension.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates the configuration and writes it under the extension key.
func Save(db Store, pkg string, src Configuration) error {
	key := Key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of given extension into dst. ErrNotFound is
// returned if it was never saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	key := Key(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal: key %q: %s", key, err)
	}
	return nil
}

// InitConfig will take opts["conf"][pkg], parse it into the given
// configuration object, validate it and store it.
func InitConfig(db Store, opts crowdsale.Options, pkg string, conf Configuration) error {
	var confOptions crowdsale.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
