/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket can contain only one type of Model, which is
serialized with protobuf and validated on every write.
*/
package orm

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// Model is implemented by any entity that can be stored using a Bucket.
type Model interface {
	crowdsale.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the DB holding models of one kind.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data. The name is used as the key
// prefix and must be unique across the application.
func NewBucket(name string) Bucket {
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Register registers this Bucket under /<name>. You can define a name here
// for queries, which is different than the bucket name used to prefix the
// data.
func (b Bucket) Register(name string, r crowdsale.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db crowdsale.ReadOnlyKVStore, mod string, data []byte) ([]crowdsale.Model, error) {
	switch mod {
	case crowdsale.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []crowdsale.Model{{Key: key, Value: value}}, nil
	case crowdsale.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads a single model by its key into dest.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b Bucket) One(db crowdsale.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Has returns true if a model is stored under given key.
func (b Bucket) Has(db crowdsale.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put validates and saves given model in the database.
func (b Bucket) Put(db crowdsale.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b Bucket) Delete(db crowdsale.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	switch ok, err := db.Has(dbkey); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	return db.Delete(dbkey)
}

// Keys returns all keys stored under given key prefix, with the bucket
// prefix removed, in ascending order.
func (b Bucket) Keys(db crowdsale.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, b.DBKey(prefix))
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(models))
	for i, m := range models {
		keys[i] = m.Key[len(b.prefix):]
	}
	return keys, nil
}
