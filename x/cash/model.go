package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the value owned by a single address.
type Wallet struct {
	Balance *coin.Amount `protobuf:"bytes,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

type walletPB Wallet

func (m *walletPB) Reset()         { *m = walletPB{} }
func (m *walletPB) String() string { return proto.CompactTextString(m) }
func (*walletPB) ProtoMessage()    {}

func (w *Wallet) Marshal() ([]byte, error)   { return proto.Marshal((*walletPB)(w)) }
func (w *Wallet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*walletPB)(w)) }

// Validate checks the balance encoding.
func (w *Wallet) Validate() error {
	return errors.Wrap(w.Balance.Validate(), "balance")
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// Get returns the wallet of given address. A missing wallet is an empty one.
func (b Bucket) Get(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save writes the wallet of given address. Empty wallets are removed.
func (b Bucket) Save(db crowdsale.KVStore, addr crowdsale.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	if w.Balance.IsZero() {
		if ok, err := b.Has(db, addr); err != nil || !ok {
			return err
		}
		return b.Delete(db, addr)
	}
	return b.Put(db, addr, w)
}
