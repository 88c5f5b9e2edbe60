package weavetest

import (
	"encoding/binary"

	"github.com/mixbytes/crowdsale"
)

// Tx carries a single message. It cannot be serialized, so it is only
// useful for calling handlers directly.
type Tx struct {
	Msg crowdsale.Msg
	// Err is returned by GetMsg together with Msg.
	Err error
}

var _ crowdsale.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (crowdsale.Msg, error) { return tx.Msg, tx.Err }

func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest.Tx cannot be marshalled") }

func (tx *Tx) Unmarshal([]byte) error { panic("weavetest.Tx cannot be unmarshalled") }

// Msg routes to RoutePath and serializes to the Serialized bytes. Err, when
// set, fails validation and serialization.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ crowdsale.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

// SequenceID encodes n the way orm sequences encode their identifiers.
func SequenceID(n uint64) []byte {
	id := make([]byte, 8)
	binary.BigEndian.PutUint64(id, n)
	return id
}
