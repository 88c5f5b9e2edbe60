package multiowned

import (
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/gconf"
)

const (
	pkg = "multiowned"

	// DefaultExpiry is used when no configuration was provided.
	DefaultExpiry = crowdsale.UnixDuration(30 * 24 * time.Hour / time.Second)
)

// Configuration of the gates extension.
type Configuration struct {
	// Owner may update this configuration.
	Owner crowdsale.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	// Expiry is how long a pending operation can gather confirmations.
	Expiry crowdsale.UnixDuration `protobuf:"varint,2,opt,name=expiry,proto3" json:"expiry"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

type configurationPB Configuration

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

func (c *Configuration) Marshal() ([]byte, error) { return proto.Marshal((*configurationPB)(c)) }
func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationPB)(c))
}

func (c *Configuration) GetOwner() crowdsale.Address { return c.Owner }

func (c *Configuration) Validate() error {
	if c.Owner != nil {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if c.Expiry <= 0 {
		return errors.Wrap(errors.ErrInput, "expiry must be positive")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, pkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{Expiry: DefaultExpiry}, nil
	default:
		return nil, err
	}
}
