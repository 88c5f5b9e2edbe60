package sale

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/gconf"
)

const pkg = "sale"

// Configuration of the sale that may change while it runs.
type Configuration struct {
	// Owner may update this configuration.
	Owner crowdsale.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	// TimeOverride enables SetTimeMsg. Never enable it in production.
	TimeOverride bool `protobuf:"varint,2,opt,name=time_override,json=timeOverride,proto3" json:"time_override"`
	// FinishOnLateTx makes the first contribution after the end time
	// finalize the sale instead of failing. The contribution itself is
	// returned as change.
	FinishOnLateTx bool `protobuf:"varint,3,opt,name=finish_on_late_tx,json=finishOnLateTx,proto3" json:"finish_on_late_tx"`
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
	if c.Owner == nil {
		return nil
	}
	return errors.Wrap(c.Owner.Validate(), "owner")
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, pkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &conf, nil
	default:
		return nil, err
	}
}
