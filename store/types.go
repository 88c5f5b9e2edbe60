package store

import "github.com/mixbytes/crowdsale"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = crowdsale.ReadOnlyKVStore
	SetDeleter       = crowdsale.SetDeleter
	KVStore          = crowdsale.KVStore
	Batch            = crowdsale.Batch
	Iterator         = crowdsale.Iterator
	CacheableKVStore = crowdsale.CacheableKVStore
	KVCacheWrap      = crowdsale.KVCacheWrap
	CommitKVStore    = crowdsale.CommitKVStore
	CommitID         = crowdsale.CommitID
	Model            = crowdsale.Model
)

// Op is either set or delete
type Op struct {
	isSetOp bool
	key     []byte
	value   []byte // only for set
}

// SetOp is a helper to create a set operation
func SetOp(key, value []byte) Op {
	return Op{
		isSetOp: true,
		key:     key,
		value:   value,
	}
}

// DelOp is a helper to create a del operation
func DelOp(key []byte) Op {
	return Op{
		isSetOp: false,
		key:     key,
	}
}

// Apply performs the stored operation on a writable store
func (o Op) Apply(out SetDeleter) error {
	if o.isSetOp {
		return out.Set(o.key, o.value)
	}
	return out.Delete(o.key)
}

// IsSetOp returns true if it is setting (false implies delete)
func (o Op) IsSetOp() bool {
	return o.isSetOp
}

// Key returns a copy of the Key
func (o Op) Key() []byte {
	return append([]byte(nil), o.key...)
}

// Value returns a copy of the Value
func (o Op) Value() []byte {
	return append([]byte(nil), o.value...)
}
