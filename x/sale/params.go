package sale

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x/multiowned"
)

// BonusPolicy decides how the owner bonus is distributed.
type BonusPolicy int32

const (
	// PerOwnerBonus mints the whole bonus amount for every owner.
	PerOwnerBonus BonusPolicy = iota
	// SplitBonus splits the bonus amount equally between the owners.
	// The remainder is not minted.
	SplitBonus
)

var policyNames = map[BonusPolicy]string{
	PerOwnerBonus: "per_owner",
	SplitBonus:    "split",
}

func (p BonusPolicy) String() string {
	return policyNames[p]
}

func (p BonusPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *BonusPolicy) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "bonus policy must be a string")
	}
	for policy, name := range policyNames {
		if name == s {
			*p = policy
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown bonus policy %q", s)
}

// MaxBonusPercent bounds every configured bonus.
const MaxBonusPercent = 1000

// BonusTier grants Percent bonus to contributions made before Until.
type BonusTier struct {
	Until   crowdsale.UnixTime `protobuf:"varint,1,opt,name=until,proto3" json:"until"`
	Percent uint32             `protobuf:"varint,2,opt,name=percent,proto3" json:"percent"`
}

// Params are set in genesis and never change.
type Params struct {
	Start   crowdsale.UnixTime `protobuf:"varint,1,opt,name=start,proto3" json:"start"`
	End     crowdsale.UnixTime `protobuf:"varint,2,opt,name=end,proto3" json:"end"`
	HardCap *coin.Amount       `protobuf:"bytes,3,opt,name=hard_cap,json=hardCap,proto3" json:"hard_cap"`
	MinCap  *coin.Amount       `protobuf:"bytes,4,opt,name=min_cap,json=minCap,proto3" json:"min_cap"`
	// Rate is the number of issued units per value unit.
	Rate  uint64       `protobuf:"varint,5,opt,name=rate,proto3" json:"rate"`
	Tiers []*BonusTier `protobuf:"bytes,6,rep,name=tiers,proto3" json:"tiers"`
	// ChannelBonus is added to the time bonus of contributions
	// arriving through a payment channel.
	ChannelBonus uint32 `protobuf:"varint,7,opt,name=channel_bonus,json=channelBonus,proto3" json:"channel_bonus"`
	// Gate is the name of the multiowned gate owning the sale.
	Gate        string       `protobuf:"bytes,8,opt,name=gate,proto3" json:"gate"`
	OwnerBonus  *coin.Amount `protobuf:"bytes,9,opt,name=owner_bonus,json=ownerBonus,proto3" json:"owner_bonus"`
	BonusPolicy BonusPolicy  `protobuf:"varint,10,opt,name=bonus_policy,json=bonusPolicy,proto3" json:"bonus_policy"`
}

type paramsPB Params

func (m *paramsPB) Reset()         { *m = paramsPB{} }
func (m *paramsPB) String() string { return proto.CompactTextString(m) }
func (*paramsPB) ProtoMessage()    {}

func (p *Params) Marshal() ([]byte, error)   { return proto.Marshal((*paramsPB)(p)) }
func (p *Params) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*paramsPB)(p)) }

func (p *Params) Validate() error {
	if p.Start <= 0 || p.End <= p.Start {
		return errors.Wrap(errors.ErrInput, "end must be after start")
	}
	if err := p.HardCap.Validate(); err != nil {
		return errors.Wrap(err, "hard cap")
	}
	if p.HardCap.IsZero() {
		return errors.Wrap(errors.ErrInput, "hard cap must be positive")
	}
	if err := p.MinCap.Validate(); err != nil {
		return errors.Wrap(err, "min cap")
	}
	if p.MinCap.Cmp(p.HardCap) > 0 {
		return errors.Wrap(errors.ErrInput, "min cap above hard cap")
	}
	if p.Rate == 0 {
		return errors.Wrap(errors.ErrInput, "rate must be positive")
	}
	if p.ChannelBonus > MaxBonusPercent {
		return errors.Wrapf(errors.ErrInput, "channel bonus above %d%%", MaxBonusPercent)
	}
	for i, t := range p.Tiers {
		if t == nil {
			return errors.Wrapf(errors.ErrEmpty, "tier %d", i)
		}
		if t.Percent > MaxBonusPercent {
			return errors.Wrapf(errors.ErrInput, "tier %d bonus above %d%%", i, MaxBonusPercent)
		}
		if i == 0 {
			continue
		}
		prev := p.Tiers[i-1]
		if t.Until <= prev.Until {
			return errors.Wrapf(errors.ErrInput, "tier %d boundary is not after the previous one", i)
		}
		if t.Percent >= prev.Percent {
			return errors.Wrapf(errors.ErrInput, "tier %d bonus is not lower than the previous one", i)
		}
	}
	if err := multiowned.ValidateName(p.Gate); err != nil {
		return errors.Wrap(err, "gate")
	}
	if err := p.OwnerBonus.Validate(); err != nil {
		return errors.Wrap(err, "owner bonus")
	}
	if _, ok := policyNames[p.BonusPolicy]; !ok {
		return errors.Wrapf(errors.ErrInput, "bonus policy %d", p.BonusPolicy)
	}
	return nil
}
