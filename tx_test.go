package crowdsale

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteMsg struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text"`
}

type noteMsgPB noteMsg

func (m *noteMsgPB) Reset()         { *m = noteMsgPB{} }
func (m *noteMsgPB) String() string { return proto.CompactTextString(m) }
func (*noteMsgPB) ProtoMessage()    {}

func (m *noteMsg) Marshal() ([]byte, error)   { return proto.Marshal((*noteMsgPB)(m)) }
func (m *noteMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*noteMsgPB)(m)) }
func (noteMsg) Path() string                  { return "test/note" }

func (m *noteMsg) Validate() error {
	if m.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type envelopeTx struct {
	raw []byte
	reg *MsgRegistry
}

func (tx *envelopeTx) Marshal() ([]byte, error)   { return tx.raw, nil }
func (tx *envelopeTx) Unmarshal(raw []byte) error { tx.raw = raw; return nil }
func (tx *envelopeTx) GetMsg() (Msg, error)       { return tx.reg.DecodeEnvelope(tx.raw) }

func TestMsgRegistry(t *testing.T) {
	reg := NewMsgRegistry()
	reg.Register(&noteMsg{})

	assert.Panics(t, func() { reg.Register(&noteMsg{}) }, "duplicate path")

	sealed, err := Seal(&noteMsg{Text: "hello"})
	require.NoError(t, err)
	msg, err := reg.DecodeEnvelope(sealed)
	require.NoError(t, err)
	assert.Equal(t, &noteMsg{Text: "hello"}, msg)

	_, err = NewMsgRegistry().DecodeEnvelope(sealed)
	assert.True(t, errors.ErrMsg.Is(err), "unknown path: %+v", err)

	empty, err := Seal(&noteMsg{})
	require.NoError(t, err)
	_, err = reg.DecodeEnvelope(empty)
	assert.True(t, errors.ErrEmpty.Is(err), "invalid message: %+v", err)

	_, err = reg.Decode("test/note", []byte{0xff, 0xff})
	assert.True(t, errors.ErrMsg.Is(err), "corrupted data: %+v", err)
}

func TestLoadMsg(t *testing.T) {
	reg := NewMsgRegistry()
	reg.Register(&noteMsg{})
	sealed, err := Seal(&noteMsg{Text: "hello"})
	require.NoError(t, err)
	tx := &envelopeTx{raw: sealed, reg: reg}

	assert.Equal(t, "test/note", GetPath(tx))

	var got noteMsg
	require.NoError(t, LoadMsg(tx, &got))
	assert.Equal(t, "hello", got.Text)

	var wrong Envelope
	err = LoadMsg(tx, &wrong)
	assert.True(t, errors.ErrType.Is(err))

	err = LoadMsg(tx, got)
	assert.True(t, errors.ErrType.Is(err))

	broken := &envelopeTx{raw: []byte("garbage"), reg: reg}
	assert.Equal(t, "(missing)", GetPath(broken))
	require.Error(t, LoadMsg(broken, &got))
}
