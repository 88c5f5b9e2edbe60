package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x/sigs"
)

// Tx is the transaction format of the application: a sealed message
// envelope together with the signatures of its signers.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	// Message is a serialized crowdsale.Envelope.
	Message []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

var _ crowdsale.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

type txPB Tx

func (m *txPB) Reset()         { *m = txPB{} }
func (m *txPB) String() string { return proto.CompactTextString(m) }
func (*txPB) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error)   { return proto.Marshal((*txPB)(tx)) }
func (tx *Tx) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*txPB)(tx)) }

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg crowdsale.Msg) (*Tx, error) {
	raw, err := crowdsale.Seal(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Message: raw}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (crowdsale.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode transaction: %s", err)
	}
	return tx, nil
}

// GetMsg decodes the carried message. Only messages known to the
// application are accepted.
func (tx *Tx) GetMsg() (crowdsale.Msg, error) {
	if len(tx.Message) == 0 {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return messages.DecodeEnvelope(tx.Message)
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	tx.Signatures = signatures
	return bz, err
}
