package funds

import (
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/orm"
)

// State of the escrow lifecycle.
type State int32

const (
	Gathering State = 1 + iota
	Success
	Refunding
)

var stateNames = map[State]string{
	Gathering: "gathering",
	Success:   "success",
	Refunding: "refunding",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "invalid"
}

// Validate returns an error if this is not a known state.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errors.Wrapf(errors.ErrInput, "state %d", s)
	}
	return nil
}

// Terminal returns true for states that can never be left.
func (s State) Terminal() bool {
	return s == Success || s == Refunding
}

const registryKey = "main"

// EscrowAddress is where the held value is kept.
func EscrowAddress() crowdsale.Address {
	return crowdsale.NewCondition("funds", "registry", []byte(registryKey)).Address()
}

// Registry is the escrow state.
type Registry struct {
	State State `protobuf:"varint,1,opt,name=state,proto3" json:"state"`
	// Controller may record contributions and finish the gathering.
	Controller crowdsale.Address `protobuf:"bytes,2,opt,name=controller,proto3" json:"controller"`
	// Admin may change the controller and release the value on success.
	Admin crowdsale.Address `protobuf:"bytes,3,opt,name=admin,proto3" json:"admin"`
	// Total is the sum of all recorded contributions that were not
	// refunded yet.
	Total *coin.Amount `protobuf:"bytes,4,opt,name=total,proto3" json:"total"`
	// Contributors is the number of distinct contributors.
	Contributors int64 `protobuf:"varint,5,opt,name=contributors,proto3" json:"contributors"`
}

type registryPB Registry

func (m *registryPB) Reset()         { *m = registryPB{} }
func (m *registryPB) String() string { return proto.CompactTextString(m) }
func (*registryPB) ProtoMessage()    {}

func (r *Registry) Marshal() ([]byte, error)   { return proto.Marshal((*registryPB)(r)) }
func (r *Registry) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*registryPB)(r)) }

func (r *Registry) Validate() error {
	if err := r.State.Validate(); err != nil {
		return err
	}
	if err := r.Controller.Validate(); err != nil {
		return errors.Wrap(err, "controller")
	}
	if err := r.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	if err := r.Total.Validate(); err != nil {
		return errors.Wrap(err, "total")
	}
	if r.Contributors < 0 {
		return errors.Wrap(errors.ErrModel, "negative contributor count")
	}
	return nil
}

// Contribution is the ledger entry of a single contributor.
type Contribution struct {
	Amount *coin.Amount `protobuf:"bytes,1,opt,name=amount,proto3" json:"amount"`
	// Seq is the position of the contributor in the first seen order,
	// starting with 1.
	Seq int64 `protobuf:"varint,2,opt,name=seq,proto3" json:"seq"`
}

type contributionPB Contribution

func (m *contributionPB) Reset()         { *m = contributionPB{} }
func (m *contributionPB) String() string { return proto.CompactTextString(m) }
func (*contributionPB) ProtoMessage()    {}

func (c *Contribution) Marshal() ([]byte, error) { return proto.Marshal((*contributionPB)(c)) }
func (c *Contribution) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*contributionPB)(c))
}

func (c *Contribution) Validate() error {
	if c.Seq < 1 {
		return errors.Wrap(errors.ErrModel, "sequence")
	}
	return errors.Wrap(c.Amount.Validate(), "amount")
}

// RegistryBucket keeps the escrow registry.
type RegistryBucket struct {
	orm.Bucket
}

func NewRegistryBucket() RegistryBucket {
	return RegistryBucket{Bucket: orm.NewBucket("funds")}
}

// Get returns the registry or ErrNotFound if the escrow was never set up.
func (b RegistryBucket) Get(db crowdsale.ReadOnlyKVStore) (*Registry, error) {
	var r Registry
	if err := b.One(db, []byte(registryKey), &r); err != nil {
		return nil, errors.Wrap(err, "escrow registry")
	}
	return &r, nil
}

func (b RegistryBucket) Save(db crowdsale.KVStore, r *Registry) error {
	return b.Put(db, []byte(registryKey), r)
}

// ContributionBucket keeps the ledger, keyed by contributor address.
type ContributionBucket struct {
	orm.Bucket
}

func NewContributionBucket() ContributionBucket {
	return ContributionBucket{Bucket: orm.NewBucket("contrib")}
}

// Get returns the entry of the contributor or nil if there is none.
func (b ContributionBucket) Get(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*Contribution, error) {
	var c Contribution
	switch err := b.One(db, addr, &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (b ContributionBucket) Save(db crowdsale.KVStore, addr crowdsale.Address, c *Contribution) error {
	return b.Put(db, addr, c)
}

// Ordered returns all contributors in the order they were first seen.
func (b ContributionBucket) Ordered(db crowdsale.ReadOnlyKVStore) ([]crowdsale.Address, error) {
	keys, err := b.Keys(db, nil)
	if err != nil {
		return nil, err
	}
	seqs := make(map[string]int64, len(keys))
	for _, k := range keys {
		c, err := b.Get(db, k)
		if err != nil {
			return nil, err
		}
		seqs[string(k)] = c.Seq
	}
	sort.Slice(keys, func(i, j int) bool {
		return seqs[string(keys[i])] < seqs[string(keys[j])]
	})
	addrs := make([]crowdsale.Address, len(keys))
	for i, k := range keys {
		addrs[i] = crowdsale.Address(k)
	}
	return addrs, nil
}
