package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/orm"
)

const ledgerKey = "main"

// Ledger is the global state of the issued unit.
type Ledger struct {
	// Controller may mint and toggle transfers.
	Controller crowdsale.Address `protobuf:"bytes,1,opt,name=controller,proto3" json:"controller"`
	// Admin may replace the controller.
	Admin            crowdsale.Address `protobuf:"bytes,2,opt,name=admin,proto3" json:"admin"`
	TransfersEnabled bool              `protobuf:"varint,3,opt,name=transfers_enabled,json=transfersEnabled,proto3" json:"transfers_enabled"`
	Supply           *coin.Amount      `protobuf:"bytes,4,opt,name=supply,proto3" json:"supply"`
}

type ledgerPB Ledger

func (m *ledgerPB) Reset()         { *m = ledgerPB{} }
func (m *ledgerPB) String() string { return proto.CompactTextString(m) }
func (*ledgerPB) ProtoMessage()    {}

func (l *Ledger) Marshal() ([]byte, error)   { return proto.Marshal((*ledgerPB)(l)) }
func (l *Ledger) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*ledgerPB)(l)) }

func (l *Ledger) Validate() error {
	if err := l.Controller.Validate(); err != nil {
		return errors.Wrap(err, "controller")
	}
	if err := l.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return errors.Wrap(l.Supply.Validate(), "supply")
}

// Balance is the amount of units held by an address.
type Balance struct {
	Amount *coin.Amount `protobuf:"bytes,1,opt,name=amount,proto3" json:"amount"`
}

type balancePB Balance

func (m *balancePB) Reset()         { *m = balancePB{} }
func (m *balancePB) String() string { return proto.CompactTextString(m) }
func (*balancePB) ProtoMessage()    {}

func (b *Balance) Marshal() ([]byte, error)   { return proto.Marshal((*balancePB)(b)) }
func (b *Balance) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*balancePB)(b)) }

func (b *Balance) Validate() error {
	return errors.Wrap(b.Amount.Validate(), "amount")
}

// LedgerBucket keeps the single Ledger.
type LedgerBucket struct {
	orm.Bucket
}

func NewLedgerBucket() LedgerBucket {
	return LedgerBucket{Bucket: orm.NewBucket("tokenledger")}
}

func (b LedgerBucket) Get(db crowdsale.ReadOnlyKVStore) (*Ledger, error) {
	var l Ledger
	if err := b.One(db, []byte(ledgerKey), &l); err != nil {
		return nil, errors.Wrap(err, "token ledger")
	}
	return &l, nil
}

func (b LedgerBucket) Save(db crowdsale.KVStore, l *Ledger) error {
	return b.Put(db, []byte(ledgerKey), l)
}

// BalanceBucket keeps balances keyed by the holder address. Empty
// balances are not stored.
type BalanceBucket struct {
	orm.Bucket
}

func NewBalanceBucket() BalanceBucket {
	return BalanceBucket{Bucket: orm.NewBucket("token")}
}

func (b BalanceBucket) Get(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*coin.Amount, error) {
	var bal Balance
	switch err := b.One(db, addr, &bal); {
	case err == nil:
		return bal.Amount, nil
	case errors.ErrNotFound.Is(err):
		return &coin.Amount{}, nil
	default:
		return nil, err
	}
}

func (b BalanceBucket) Set(db crowdsale.KVStore, addr crowdsale.Address, amount *coin.Amount) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "holder")
	}
	if amount.IsZero() {
		if ok, err := b.Has(db, addr); err != nil || !ok {
			return err
		}
		return b.Delete(db, addr)
	}
	return b.Put(db, addr, &Balance{Amount: amount})
}
