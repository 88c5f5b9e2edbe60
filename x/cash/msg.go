package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

const maxMemoSize = 128

var _ crowdsale.Msg = (*SendMsg)(nil)

// SendMsg moves value from the signer to the destination.
type SendMsg struct {
	Source      crowdsale.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Destination crowdsale.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      *coin.Amount      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string            `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

type sendMsgPB SendMsg

func (m *sendMsgPB) Reset()         { *m = sendMsgPB{} }
func (m *sendMsgPB) String() string { return proto.CompactTextString(m) }
func (*sendMsgPB) ProtoMessage()    {}

func (m *SendMsg) Marshal() ([]byte, error)   { return proto.Marshal((*sendMsgPB)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgPB)(m)) }

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrZeroValue, "amount")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}
