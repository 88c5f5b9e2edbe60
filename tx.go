package crowdsale

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale/errors"
)

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Marshaller is anything that can be represented in binary
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Msg is message for the blockchain to take an action
// (Make a state transition). It is just the read-only
// description of the action, and all actual work is done
// by the handler.
type Msg interface {
	Persistent

	// Path returns a path that identifies the message type and
	// is used for routing to the handler.
	Path() string

	// Validate performs a sanity check of the message state.
	Validate() error
}

// Tx represent the data sent from the user to the chain.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pay fees.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// MsgRegistry knows how to construct a message instance for a path. It is
// used to decode messages carried in transactions and in the actions
// confirmed by the multi-owner gates.
type MsgRegistry struct {
	types map[string]reflect.Type
}

// NewMsgRegistry returns an empty registry.
func NewMsgRegistry() *MsgRegistry {
	return &MsgRegistry{types: make(map[string]reflect.Type)}
}

// Register adds given message kinds to the registry. Each message must be
// given as a pointer and its path must be unique.
//
// Use this function only during a program startup phase.
func (r *MsgRegistry) Register(msgs ...Msg) {
	for _, m := range msgs {
		path := m.Path()
		if !isPath(path) {
			panic(fmt.Sprintf("invalid message path %q", path))
		}
		if _, ok := r.types[path]; ok {
			panic(fmt.Sprintf("message %q already registered", path))
		}
		t := reflect.TypeOf(m)
		if t.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("message %q must be registered as a pointer", path))
		}
		r.types[path] = t.Elem()
	}
}

// Decode returns a validated message instance of a registered kind.
func (r *MsgRegistry) Decode(path string, raw []byte) (Msg, error) {
	t, ok := r.types[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", path)
	}
	msg := reflect.New(t).Interface().(Msg)
	if err := msg.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %q: %s", path, err)
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %q message", path)
	}
	return msg, nil
}

// DecodeEnvelope is Decode over a serialized Envelope.
func (r *MsgRegistry) DecodeEnvelope(raw []byte) (Msg, error) {
	var env Envelope
	if err := env.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, "cannot decode envelope")
	}
	return r.Decode(env.Path, env.Data)
}

// Envelope is the wire representation of any message: the routing path
// followed by the serialized message.
type Envelope struct {
	Path string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Data []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

type envelopePB Envelope

func (m *envelopePB) Reset()         { *m = envelopePB{} }
func (m *envelopePB) String() string { return proto.CompactTextString(m) }
func (*envelopePB) ProtoMessage()    {}

// Marshal serializes the envelope using the protobuf encoding.
func (m *Envelope) Marshal() ([]byte, error) { return proto.Marshal((*envelopePB)(m)) }

// Unmarshal loads the envelope from its protobuf encoding.
func (m *Envelope) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*envelopePB)(m)) }

// Seal serializes given message together with its path. The result can be
// decoded by MsgRegistry.DecodeEnvelope.
func Seal(msg Msg) ([]byte, error) {
	data, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	env := Envelope{Path: msg.Path(), Data: data}
	return env.Marshal()
}

// LoadMsg extracts the message represented by given transaction into the
// given destination, which must be a pointer to the message type. The
// message is validated.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	src := reflect.ValueOf(msg)
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a pointer, got %T", destination)
	}
	if src.Type() != dst.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src.Elem())
	return nil
}
