package multiowned

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

var (
	_ crowdsale.Msg = (*ProposeMsg)(nil)
	_ crowdsale.Msg = (*RevokeMsg)(nil)
	_ crowdsale.Msg = (*AddOwnerMsg)(nil)
	_ crowdsale.Msg = (*RemoveOwnerMsg)(nil)
	_ crowdsale.Msg = (*ChangeOwnerMsg)(nil)
	_ crowdsale.Msg = (*ChangeRequirementMsg)(nil)
	_ crowdsale.Msg = (*UpdateConfigurationMsg)(nil)
)

// ProposeMsg submits an action to the gate, or confirms it if the same
// action is already pending. Action is a message sealed with
// crowdsale.Seal.
type ProposeMsg struct {
	Gate   string `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	Action []byte `protobuf:"bytes,2,opt,name=action,proto3" json:"action"`
}

type proposeMsgPB ProposeMsg

func (m *proposeMsgPB) Reset()         { *m = proposeMsgPB{} }
func (m *proposeMsgPB) String() string { return proto.CompactTextString(m) }
func (*proposeMsgPB) ProtoMessage()    {}

func (m *ProposeMsg) Marshal() ([]byte, error)   { return proto.Marshal((*proposeMsgPB)(m)) }
func (m *ProposeMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*proposeMsgPB)(m)) }

func (ProposeMsg) Path() string { return "multiowned/propose" }

func (m *ProposeMsg) Validate() error {
	if err := ValidateName(m.Gate); err != nil {
		return err
	}
	if len(m.Action) == 0 {
		return errors.Wrap(errors.ErrEmpty, "action")
	}
	return nil
}

// NewProposeMsg seals the action and returns a proposal of it.
func NewProposeMsg(gate string, action crowdsale.Msg) (*ProposeMsg, error) {
	raw, err := crowdsale.Seal(action)
	if err != nil {
		return nil, err
	}
	return &ProposeMsg{Gate: gate, Action: raw}, nil
}

// RevokeMsg withdraws the signer's confirmation of a pending operation.
type RevokeMsg struct {
	Gate        string `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	OperationID []byte `protobuf:"bytes,2,opt,name=operation_id,json=operationId,proto3" json:"operation_id"`
}

type revokeMsgPB RevokeMsg

func (m *revokeMsgPB) Reset()         { *m = revokeMsgPB{} }
func (m *revokeMsgPB) String() string { return proto.CompactTextString(m) }
func (*revokeMsgPB) ProtoMessage()    {}

func (m *RevokeMsg) Marshal() ([]byte, error)   { return proto.Marshal((*revokeMsgPB)(m)) }
func (m *RevokeMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*revokeMsgPB)(m)) }

func (RevokeMsg) Path() string { return "multiowned/revoke" }

func (m *RevokeMsg) Validate() error {
	if err := ValidateName(m.Gate); err != nil {
		return err
	}
	if len(m.OperationID) != 32 {
		return errors.Wrap(errors.ErrInput, "operation id must be a sha256 fingerprint")
	}
	return nil
}

// AddOwnerMsg appends an owner to the gate. It must be executed by the gate.
type AddOwnerMsg struct {
	Gate  string            `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	Owner crowdsale.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
}

type addOwnerMsgPB AddOwnerMsg

func (m *addOwnerMsgPB) Reset()         { *m = addOwnerMsgPB{} }
func (m *addOwnerMsgPB) String() string { return proto.CompactTextString(m) }
func (*addOwnerMsgPB) ProtoMessage()    {}

func (m *AddOwnerMsg) Marshal() ([]byte, error)   { return proto.Marshal((*addOwnerMsgPB)(m)) }
func (m *AddOwnerMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*addOwnerMsgPB)(m)) }

func (AddOwnerMsg) Path() string { return "multiowned/add_owner" }

func (m *AddOwnerMsg) Validate() error {
	if err := ValidateName(m.Gate); err != nil {
		return err
	}
	return errors.Wrap(m.Owner.Validate(), "owner")
}

// RemoveOwnerMsg drops an owner from the gate. It must be executed by the
// gate.
type RemoveOwnerMsg struct {
	Gate  string            `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	Owner crowdsale.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
}

type removeOwnerMsgPB RemoveOwnerMsg

func (m *removeOwnerMsgPB) Reset()         { *m = removeOwnerMsgPB{} }
func (m *removeOwnerMsgPB) String() string { return proto.CompactTextString(m) }
func (*removeOwnerMsgPB) ProtoMessage()    {}

func (m *RemoveOwnerMsg) Marshal() ([]byte, error) { return proto.Marshal((*removeOwnerMsgPB)(m)) }
func (m *RemoveOwnerMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*removeOwnerMsgPB)(m))
}

func (RemoveOwnerMsg) Path() string { return "multiowned/remove_owner" }

func (m *RemoveOwnerMsg) Validate() error {
	if err := ValidateName(m.Gate); err != nil {
		return err
	}
	return errors.Wrap(m.Owner.Validate(), "owner")
}

// ChangeOwnerMsg replaces an owner keeping its position. It must be
// executed by the gate.
type ChangeOwnerMsg struct {
	Gate string            `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	From crowdsale.Address `protobuf:"bytes,2,opt,name=from,proto3" json:"from"`
	To   crowdsale.Address `protobuf:"bytes,3,opt,name=to,proto3" json:"to"`
}

type changeOwnerMsgPB ChangeOwnerMsg

func (m *changeOwnerMsgPB) Reset()         { *m = changeOwnerMsgPB{} }
func (m *changeOwnerMsgPB) String() string { return proto.CompactTextString(m) }
func (*changeOwnerMsgPB) ProtoMessage()    {}

func (m *ChangeOwnerMsg) Marshal() ([]byte, error) { return proto.Marshal((*changeOwnerMsgPB)(m)) }
func (m *ChangeOwnerMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*changeOwnerMsgPB)(m))
}

func (ChangeOwnerMsg) Path() string { return "multiowned/change_owner" }

func (m *ChangeOwnerMsg) Validate() error {
	if err := ValidateName(m.Gate); err != nil {
		return err
	}
	if err := m.From.Validate(); err != nil {
		return errors.Wrap(err, "from")
	}
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	if m.From.Equals(m.To) {
		return errors.Wrap(errors.ErrInput, "owner replaced with itself")
	}
	return nil
}

// ChangeRequirementMsg sets the number of confirmations the gate requires.
// It must be executed by the gate.
type ChangeRequirementMsg struct {
	Gate     string `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	Required uint32 `protobuf:"varint,2,opt,name=required,proto3" json:"required"`
}

type changeRequirementMsgPB ChangeRequirementMsg

func (m *changeRequirementMsgPB) Reset()         { *m = changeRequirementMsgPB{} }
func (m *changeRequirementMsgPB) String() string { return proto.CompactTextString(m) }
func (*changeRequirementMsgPB) ProtoMessage()    {}

func (m *ChangeRequirementMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*changeRequirementMsgPB)(m))
}

func (m *ChangeRequirementMsg) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*changeRequirementMsgPB)(m))
}

func (ChangeRequirementMsg) Path() string { return "multiowned/change_requirement" }

// Validate does not check the lower bound, a zero requirement is rejected
// by the handler with the requirement error.
func (m *ChangeRequirementMsg) Validate() error {
	return ValidateName(m.Gate)
}

// UpdateConfigurationMsg replaces the extension configuration.
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

func (UpdateConfigurationMsg) Path() string { return "multiowned/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}
