package funds

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

var (
	_ crowdsale.Msg = (*WithdrawPaymentsMsg)(nil)
	_ crowdsale.Msg = (*SendValueMsg)(nil)
	_ crowdsale.Msg = (*SetControllerMsg)(nil)
	_ crowdsale.Msg = (*SetStateMsg)(nil)
)

// WithdrawPaymentsMsg refunds the contributor after a failed sale.
type WithdrawPaymentsMsg struct {
	Contributor crowdsale.Address `protobuf:"bytes,1,opt,name=contributor,proto3" json:"contributor"`
}

type withdrawPaymentsMsgPB WithdrawPaymentsMsg

func (m *withdrawPaymentsMsgPB) Reset()         { *m = withdrawPaymentsMsgPB{} }
func (m *withdrawPaymentsMsgPB) String() string { return proto.CompactTextString(m) }
func (*withdrawPaymentsMsgPB) ProtoMessage()    {}

func (m *WithdrawPaymentsMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*withdrawPaymentsMsgPB)(m))
}
func (m *WithdrawPaymentsMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*withdrawPaymentsMsgPB)(m))
}

func (WithdrawPaymentsMsg) Path() string { return "funds/withdraw_payments" }

func (m *WithdrawPaymentsMsg) Validate() error {
	return errors.Wrap(m.Contributor.Validate(), "contributor")
}

// SendValueMsg releases held value to the destination.
type SendValueMsg struct {
	Destination crowdsale.Address `protobuf:"bytes,1,opt,name=destination,proto3" json:"destination"`
	Amount      *coin.Amount      `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount"`
}

type sendValueMsgPB SendValueMsg

func (m *sendValueMsgPB) Reset()         { *m = sendValueMsgPB{} }
func (m *sendValueMsgPB) String() string { return proto.CompactTextString(m) }
func (*sendValueMsgPB) ProtoMessage()    {}

func (m *SendValueMsg) Marshal() ([]byte, error) { return proto.Marshal((*sendValueMsgPB)(m)) }
func (m *SendValueMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*sendValueMsgPB)(m))
}

func (SendValueMsg) Path() string { return "funds/send_value" }

func (m *SendValueMsg) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrZeroValue, "amount")
	}
	return nil
}

// SetControllerMsg replaces the escrow controller.
type SetControllerMsg struct {
	Controller crowdsale.Address `protobuf:"bytes,1,opt,name=controller,proto3" json:"controller"`
}

type setControllerMsgPB SetControllerMsg

func (m *setControllerMsgPB) Reset()         { *m = setControllerMsgPB{} }
func (m *setControllerMsgPB) String() string { return proto.CompactTextString(m) }
func (*setControllerMsgPB) ProtoMessage()    {}

func (m *SetControllerMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*setControllerMsgPB)(m))
}
func (m *SetControllerMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setControllerMsgPB)(m))
}

func (SetControllerMsg) Path() string { return "funds/set_controller" }

func (m *SetControllerMsg) Validate() error {
	return errors.Wrap(m.Controller.Validate(), "controller")
}

// SetStateMsg finishes the gathering. It is used when the controller is an
// account rather than the sale.
type SetStateMsg struct {
	State State `protobuf:"varint,1,opt,name=state,proto3" json:"state"`
}

type setStateMsgPB SetStateMsg

func (m *setStateMsgPB) Reset()         { *m = setStateMsgPB{} }
func (m *setStateMsgPB) String() string { return proto.CompactTextString(m) }
func (*setStateMsgPB) ProtoMessage()    {}

func (m *SetStateMsg) Marshal() ([]byte, error) { return proto.Marshal((*setStateMsgPB)(m)) }
func (m *SetStateMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setStateMsgPB)(m))
}

func (SetStateMsg) Path() string { return "funds/set_state" }

func (m *SetStateMsg) Validate() error {
	return m.State.Validate()
}
