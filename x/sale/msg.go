package sale

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

var (
	_ crowdsale.Msg = (*ContributeMsg)(nil)
	_ crowdsale.Msg = (*CheckTimeMsg)(nil)
	_ crowdsale.Msg = (*SetTimeMsg)(nil)
	_ crowdsale.Msg = (*ProvisionChannelsMsg)(nil)
	_ crowdsale.Msg = (*UpdateConfigurationMsg)(nil)
)

// ContributeMsg buys issued units. A non zero Channel attributes the
// contribution to a payment channel.
type ContributeMsg struct {
	Contributor crowdsale.Address `protobuf:"bytes,1,opt,name=contributor,proto3" json:"contributor"`
	Amount      *coin.Amount      `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount"`
	Channel     uint32            `protobuf:"varint,3,opt,name=channel,proto3" json:"channel,omitempty"`
}

type contributeMsgPB ContributeMsg

func (m *contributeMsgPB) Reset()         { *m = contributeMsgPB{} }
func (m *contributeMsgPB) String() string { return proto.CompactTextString(m) }
func (*contributeMsgPB) ProtoMessage()    {}

func (m *ContributeMsg) Marshal() ([]byte, error) { return proto.Marshal((*contributeMsgPB)(m)) }
func (m *ContributeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*contributeMsgPB)(m))
}

func (ContributeMsg) Path() string { return "sale/contribute" }

// Validate does not reject a zero amount. That is reported by the sale
// with its state taken into account.
func (m *ContributeMsg) Validate() error {
	if err := m.Contributor.Validate(); err != nil {
		return errors.Wrap(err, "contributor")
	}
	return errors.Wrap(m.Amount.Validate(), "amount")
}

// CheckTimeMsg finalizes the sale if it has ended.
type CheckTimeMsg struct{}

type checkTimeMsgPB CheckTimeMsg

func (m *checkTimeMsgPB) Reset()         { *m = checkTimeMsgPB{} }
func (m *checkTimeMsgPB) String() string { return proto.CompactTextString(m) }
func (*checkTimeMsgPB) ProtoMessage()    {}

func (m *CheckTimeMsg) Marshal() ([]byte, error) { return proto.Marshal((*checkTimeMsgPB)(m)) }
func (m *CheckTimeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*checkTimeMsgPB)(m))
}

func (CheckTimeMsg) Path() string { return "sale/check_time" }

func (m *CheckTimeMsg) Validate() error { return nil }

// SetTimeMsg overrides the time seen by the sale.
type SetTimeMsg struct {
	Now crowdsale.UnixTime `protobuf:"varint,1,opt,name=now,proto3" json:"now"`
}

type setTimeMsgPB SetTimeMsg

func (m *setTimeMsgPB) Reset()         { *m = setTimeMsgPB{} }
func (m *setTimeMsgPB) String() string { return proto.CompactTextString(m) }
func (*setTimeMsgPB) ProtoMessage()    {}

func (m *SetTimeMsg) Marshal() ([]byte, error) { return proto.Marshal((*setTimeMsgPB)(m)) }
func (m *SetTimeMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setTimeMsgPB)(m))
}

func (SetTimeMsg) Path() string { return "sale/set_time" }

func (m *SetTimeMsg) Validate() error {
	if m.Now <= 0 {
		return errors.Wrap(errors.ErrInput, "time must be positive")
	}
	return nil
}

// ProvisionChannelsMsg adds payment channels.
type ProvisionChannelsMsg struct {
	Count uint32 `protobuf:"varint,1,opt,name=count,proto3" json:"count"`
}

type provisionChannelsMsgPB ProvisionChannelsMsg

func (m *provisionChannelsMsgPB) Reset()         { *m = provisionChannelsMsgPB{} }
func (m *provisionChannelsMsgPB) String() string { return proto.CompactTextString(m) }
func (*provisionChannelsMsgPB) ProtoMessage()    {}

func (m *ProvisionChannelsMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*provisionChannelsMsgPB)(m))
}
func (m *ProvisionChannelsMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*provisionChannelsMsgPB)(m))
}

func (ProvisionChannelsMsg) Path() string { return "sale/provision_channels" }

func (m *ProvisionChannelsMsg) Validate() error {
	if m.Count == 0 {
		return errors.Wrap(errors.ErrInput, "count must be positive")
	}
	return nil
}

// UpdateConfigurationMsg replaces the sale configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch"`
}

type updateConfigurationMsgPB UpdateConfigurationMsg

func (m *updateConfigurationMsgPB) Reset()         { *m = updateConfigurationMsgPB{} }
func (m *updateConfigurationMsgPB) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgPB) ProtoMessage()    {}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgPB)(m))
}
func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*updateConfigurationMsgPB)(m))
}

func (UpdateConfigurationMsg) Path() string { return "sale/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}
