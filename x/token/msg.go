package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

var (
	_ crowdsale.Msg = (*TransferMsg)(nil)
	_ crowdsale.Msg = (*SetControllerMsg)(nil)
	_ crowdsale.Msg = (*SetTransfersEnabledMsg)(nil)
)

// TransferMsg moves issued units between holders.
type TransferMsg struct {
	Source      crowdsale.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source"`
	Destination crowdsale.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination"`
	Amount      *coin.Amount      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
}

type transferMsgPB TransferMsg

func (m *transferMsgPB) Reset()         { *m = transferMsgPB{} }
func (m *transferMsgPB) String() string { return proto.CompactTextString(m) }
func (*transferMsgPB) ProtoMessage()    {}

func (m *TransferMsg) Marshal() ([]byte, error)   { return proto.Marshal((*transferMsgPB)(m)) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*transferMsgPB)(m)) }

func (TransferMsg) Path() string { return "token/transfer" }

func (m *TransferMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
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

// SetControllerMsg hands the controller role over.
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

func (SetControllerMsg) Path() string { return "token/set_controller" }

func (m *SetControllerMsg) Validate() error {
	return errors.Wrap(m.Controller.Validate(), "controller")
}

// SetTransfersEnabledMsg freezes or unfreezes transfers.
type SetTransfersEnabledMsg struct {
	Enabled bool `protobuf:"varint,1,opt,name=enabled,proto3" json:"enabled"`
}

type setTransfersEnabledMsgPB SetTransfersEnabledMsg

func (m *setTransfersEnabledMsgPB) Reset()         { *m = setTransfersEnabledMsgPB{} }
func (m *setTransfersEnabledMsgPB) String() string { return proto.CompactTextString(m) }
func (*setTransfersEnabledMsgPB) ProtoMessage()    {}

func (m *SetTransfersEnabledMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*setTransfersEnabledMsgPB)(m))
}
func (m *SetTransfersEnabledMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*setTransfersEnabledMsgPB)(m))
}

func (SetTransfersEnabledMsg) Path() string { return "token/set_transfers_enabled" }

func (m *SetTransfersEnabledMsg) Validate() error { return nil }
