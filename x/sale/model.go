package sale

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/orm"
)

// Phase is the state of the sale derived from its parameters, its
// progress and the current time.
type Phase int

const (
	Before Phase = iota
	Active
	// Ended means the end time or the hard cap was reached but the sale
	// was not finalized yet.
	Ended
	Success
	Failure
)

func (p Phase) String() string {
	switch p {
	case Before:
		return "before"
	case Active:
		return "active"
	case Ended:
		return "ended"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "invalid"
}

// State is the progress of the sale.
type State struct {
	Raised    *coin.Amount `protobuf:"bytes,1,opt,name=raised,proto3" json:"raised"`
	Finalized bool         `protobuf:"varint,2,opt,name=finalized,proto3" json:"finalized"`
	// OwnerBonusMinted is set once the owners received their bonus.
	OwnerBonusMinted bool `protobuf:"varint,3,opt,name=owner_bonus_minted,json=ownerBonusMinted,proto3" json:"owner_bonus_minted"`
	// Channels is the number of provisioned payment channels.
	Channels uint32 `protobuf:"varint,4,opt,name=channels,proto3" json:"channels"`
	// Now overrides the block time when the time override is enabled.
	Now crowdsale.UnixTime `protobuf:"varint,5,opt,name=now,proto3" json:"now,omitempty"`
}

type statePB State

func (m *statePB) Reset()         { *m = statePB{} }
func (m *statePB) String() string { return proto.CompactTextString(m) }
func (*statePB) ProtoMessage()    {}

func (s *State) Marshal() ([]byte, error)   { return proto.Marshal((*statePB)(s)) }
func (s *State) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*statePB)(s)) }

func (s *State) Validate() error {
	if err := s.Raised.Validate(); err != nil {
		return errors.Wrap(err, "raised")
	}
	return errors.Wrap(s.Now.Validate(), "now")
}

// Phase returns the phase of the sale at given time.
func (s *State) Phase(p *Params, now crowdsale.UnixTime) Phase {
	switch {
	case s.Finalized && s.Raised.Cmp(p.MinCap) >= 0:
		return Success
	case s.Finalized:
		return Failure
	case now < p.Start:
		return Before
	case now >= p.End || s.Raised.Cmp(p.HardCap) >= 0:
		return Ended
	default:
		return Active
	}
}

// Investment sums up the contributions of a single contributor.
type Investment struct {
	Contributed *coin.Amount `protobuf:"bytes,1,opt,name=contributed,proto3" json:"contributed"`
	Issued      *coin.Amount `protobuf:"bytes,2,opt,name=issued,proto3" json:"issued"`
}

type investmentPB Investment

func (m *investmentPB) Reset()         { *m = investmentPB{} }
func (m *investmentPB) String() string { return proto.CompactTextString(m) }
func (*investmentPB) ProtoMessage()    {}

func (i *Investment) Marshal() ([]byte, error) { return proto.Marshal((*investmentPB)(i)) }
func (i *Investment) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*investmentPB)(i))
}

func (i *Investment) Validate() error {
	if err := i.Contributed.Validate(); err != nil {
		return errors.Wrap(err, "contributed")
	}
	return errors.Wrap(i.Issued.Validate(), "issued")
}

// ChannelTotal is the value invested through a payment channel.
type ChannelTotal struct {
	Invested *coin.Amount `protobuf:"bytes,1,opt,name=invested,proto3" json:"invested"`
}

type channelTotalPB ChannelTotal

func (m *channelTotalPB) Reset()         { *m = channelTotalPB{} }
func (m *channelTotalPB) String() string { return proto.CompactTextString(m) }
func (*channelTotalPB) ProtoMessage()    {}

func (c *ChannelTotal) Marshal() ([]byte, error) { return proto.Marshal((*channelTotalPB)(c)) }
func (c *ChannelTotal) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*channelTotalPB)(c))
}

func (c *ChannelTotal) Validate() error {
	return errors.Wrap(c.Invested.Validate(), "invested")
}

// Receipt is returned as the result data of a contribution.
type Receipt struct {
	Accepted *coin.Amount `protobuf:"bytes,1,opt,name=accepted,proto3" json:"accepted"`
	Change   *coin.Amount `protobuf:"bytes,2,opt,name=change,proto3" json:"change"`
	Issued   *coin.Amount `protobuf:"bytes,3,opt,name=issued,proto3" json:"issued"`
	Bonus    uint32       `protobuf:"varint,4,opt,name=bonus,proto3" json:"bonus"`
	// Finalized is set if this contribution finalized the sale.
	Finalized bool `protobuf:"varint,5,opt,name=finalized,proto3" json:"finalized"`
}

type receiptPB Receipt

func (m *receiptPB) Reset()         { *m = receiptPB{} }
func (m *receiptPB) String() string { return proto.CompactTextString(m) }
func (*receiptPB) ProtoMessage()    {}

func (r *Receipt) Marshal() ([]byte, error)   { return proto.Marshal((*receiptPB)(r)) }
func (r *Receipt) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*receiptPB)(r)) }

const singletonKey = "main"

// ParamsBucket keeps the sale parameters.
type ParamsBucket struct {
	orm.Bucket
}

func NewParamsBucket() ParamsBucket {
	return ParamsBucket{Bucket: orm.NewBucket("saleparams")}
}

func (b ParamsBucket) Get(db crowdsale.ReadOnlyKVStore) (*Params, error) {
	var p Params
	if err := b.One(db, []byte(singletonKey), &p); err != nil {
		return nil, errors.Wrap(err, "sale params")
	}
	return &p, nil
}

func (b ParamsBucket) Save(db crowdsale.KVStore, p *Params) error {
	return b.Put(db, []byte(singletonKey), p)
}

// StateBucket keeps the sale progress.
type StateBucket struct {
	orm.Bucket
}

func NewStateBucket() StateBucket {
	return StateBucket{Bucket: orm.NewBucket("sale")}
}

func (b StateBucket) Get(db crowdsale.ReadOnlyKVStore) (*State, error) {
	var s State
	if err := b.One(db, []byte(singletonKey), &s); err != nil {
		return nil, errors.Wrap(err, "sale state")
	}
	return &s, nil
}

func (b StateBucket) Save(db crowdsale.KVStore, s *State) error {
	return b.Put(db, []byte(singletonKey), s)
}

// InvestmentBucket keeps investments keyed by contributor address.
type InvestmentBucket struct {
	orm.Bucket
}

func NewInvestmentBucket() InvestmentBucket {
	return InvestmentBucket{Bucket: orm.NewBucket("saleinv")}
}

// Get returns the investment of the contributor, empty if there is none.
func (b InvestmentBucket) Get(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*Investment, error) {
	var inv Investment
	switch err := b.One(db, addr, &inv); {
	case err == nil:
		return &inv, nil
	case errors.ErrNotFound.Is(err):
		return &Investment{Contributed: &coin.Amount{}, Issued: &coin.Amount{}}, nil
	default:
		return nil, err
	}
}

func (b InvestmentBucket) Save(db crowdsale.KVStore, addr crowdsale.Address, inv *Investment) error {
	return b.Put(db, addr, inv)
}

// ChannelBucket keeps channel totals keyed by the encoded channel id.
type ChannelBucket struct {
	orm.Bucket
}

func NewChannelBucket() ChannelBucket {
	return ChannelBucket{Bucket: orm.NewBucket("salechan")}
}

// Get returns the value invested through the channel.
func (b ChannelBucket) Get(db crowdsale.ReadOnlyKVStore, id uint32) (*coin.Amount, error) {
	var c ChannelTotal
	switch err := b.One(db, orm.EncodeSequence(int64(id)), &c); {
	case err == nil:
		return c.Invested, nil
	case errors.ErrNotFound.Is(err):
		return &coin.Amount{}, nil
	default:
		return nil, err
	}
}

func (b ChannelBucket) Save(db crowdsale.KVStore, id uint32, invested *coin.Amount) error {
	return b.Put(db, orm.EncodeSequence(int64(id)), &ChannelTotal{Invested: invested})
}
