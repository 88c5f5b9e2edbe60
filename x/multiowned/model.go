package multiowned

import (
	"crypto/sha256"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/orm"
)

// MaxOwners is the biggest owner set a gate can have.
const MaxOwners = 250

var isGateName = regexp.MustCompile(`^[a-z0-9_]{3,32}$`).MatchString

// ValidateName returns an error if the gate name cannot be used.
func ValidateName(name string) error {
	if !isGateName(name) {
		return errors.Wrapf(errors.ErrInput, "gate name %q", name)
	}
	return nil
}

// Condition returns the condition a gate authorizes its confirmed actions
// with.
func Condition(name string) crowdsale.Condition {
	return crowdsale.NewCondition("multiowned", "gate", []byte(name))
}

// Address returns the address of the gate. Store it wherever the gate must
// be allowed to act.
func Address(name string) crowdsale.Address {
	return Condition(name).Address()
}

// Gate is an owner set together with the confirmation threshold.
type Gate struct {
	Name     string              `protobuf:"bytes,1,opt,name=name,proto3" json:"name"`
	Owners   []crowdsale.Address `protobuf:"bytes,2,rep,name=owners,proto3" json:"owners"`
	Required uint32              `protobuf:"varint,3,opt,name=required,proto3" json:"required"`
}

type gatePB Gate

func (m *gatePB) Reset()         { *m = gatePB{} }
func (m *gatePB) String() string { return proto.CompactTextString(m) }
func (*gatePB) ProtoMessage()    {}

func (g *Gate) Marshal() ([]byte, error)   { return proto.Marshal((*gatePB)(g)) }
func (g *Gate) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*gatePB)(g)) }

// Validate ensures the owner set invariants hold.
func (g *Gate) Validate() error {
	if err := ValidateName(g.Name); err != nil {
		return err
	}
	switch n := len(g.Owners); {
	case n == 0:
		return errors.Wrap(errors.ErrInvariant, "gate without owners")
	case n > MaxOwners:
		return errors.Wrapf(errors.ErrInvariant, "%d owners, at most %d allowed", n, MaxOwners)
	}
	for i, o := range g.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		if g.OwnerIndex(o) != i {
			return errors.Wrapf(errors.ErrDuplicate, "owner %s listed twice", o)
		}
	}
	if g.Required == 0 || int(g.Required) > len(g.Owners) {
		return errors.Wrapf(errors.ErrRequirement, "%d of %d owners", g.Required, len(g.Owners))
	}
	return nil
}

// OwnerIndex returns the position of the owner in the set, or -1.
func (g *Gate) OwnerIndex(addr crowdsale.Address) int {
	for i, o := range g.Owners {
		if o.Equals(addr) {
			return i
		}
	}
	return -1
}

// IsOwner returns true if the address belongs to the owner set.
func (g *Gate) IsOwner(addr crowdsale.Address) bool {
	return g.OwnerIndex(addr) >= 0
}

// PendingOperation is an action waiting for enough confirmations.
type PendingOperation struct {
	Gate       string              `protobuf:"bytes,1,opt,name=gate,proto3" json:"gate"`
	Action     []byte              `protobuf:"bytes,2,opt,name=action,proto3" json:"action"`
	Confirmers []crowdsale.Address `protobuf:"bytes,3,rep,name=confirmers,proto3" json:"confirmers"`
	CreatedAt  crowdsale.UnixTime  `protobuf:"varint,4,opt,name=created_at,json=createdAt,proto3" json:"created_at"`
}

type pendingOperationPB PendingOperation

func (m *pendingOperationPB) Reset()         { *m = pendingOperationPB{} }
func (m *pendingOperationPB) String() string { return proto.CompactTextString(m) }
func (*pendingOperationPB) ProtoMessage()    {}

func (p *PendingOperation) Marshal() ([]byte, error) {
	return proto.Marshal((*pendingOperationPB)(p))
}

func (p *PendingOperation) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*pendingOperationPB)(p))
}

func (p *PendingOperation) Validate() error {
	if err := ValidateName(p.Gate); err != nil {
		return err
	}
	if len(p.Action) == 0 {
		return errors.Wrap(errors.ErrEmpty, "action")
	}
	if len(p.Confirmers) == 0 {
		return errors.Wrap(errors.ErrEmpty, "confirmers")
	}
	if err := p.CreatedAt.Validate(); err != nil {
		return errors.Wrap(err, "created at")
	}
	return nil
}

// HasConfirmed returns true if the owner already confirmed this operation.
func (p *PendingOperation) HasConfirmed(addr crowdsale.Address) bool {
	for _, c := range p.Confirmers {
		if c.Equals(addr) {
			return true
		}
	}
	return false
}

// Expired returns true if the operation cannot be confirmed at given time.
func (p *PendingOperation) Expired(now crowdsale.UnixTime, horizon crowdsale.UnixDuration) bool {
	return now >= p.CreatedAt.Add(horizon.Duration())
}

// Fingerprint identifies an action submitted to a gate. The same action
// submitted by different owners results in the same fingerprint.
func Fingerprint(gate string, action []byte) []byte {
	h := sha256.New()
	h.Write([]byte(gate))
	h.Write([]byte{0})
	h.Write(action)
	return h.Sum(nil)
}

// GateBucket stores gates by their name.
type GateBucket struct {
	orm.Bucket
}

func NewGateBucket() GateBucket {
	return GateBucket{Bucket: orm.NewBucket("gate")}
}

// GetGate loads the gate or returns ErrNotFound.
func (b GateBucket) GetGate(db crowdsale.ReadOnlyKVStore, name string) (*Gate, error) {
	var g Gate
	if err := b.One(db, []byte(name), &g); err != nil {
		return nil, errors.Wrapf(err, "gate %q", name)
	}
	return &g, nil
}

// Save stores the gate under its name.
func (b GateBucket) Save(db crowdsale.KVStore, g *Gate) error {
	return b.Put(db, []byte(g.Name), g)
}

// PendingBucket stores pending operations under gate name and fingerprint.
type PendingBucket struct {
	orm.Bucket
}

func NewPendingBucket() PendingBucket {
	return PendingBucket{Bucket: orm.NewBucket("gatepending")}
}

// OperationKey returns the key of the pending operation.
func OperationKey(gate string, fingerprint []byte) []byte {
	key := make([]byte, 0, len(gate)+1+len(fingerprint))
	key = append(key, gate...)
	key = append(key, '/')
	return append(key, fingerprint...)
}

// GetOperation returns the pending operation or nil if there is none.
func (b PendingBucket) GetOperation(db crowdsale.ReadOnlyKVStore, gate string, fingerprint []byte) (*PendingOperation, error) {
	var op PendingOperation
	switch err := b.One(db, OperationKey(gate, fingerprint), &op); {
	case err == nil:
		return &op, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Save stores the operation.
func (b PendingBucket) Save(db crowdsale.KVStore, op *PendingOperation) error {
	return b.Put(db, OperationKey(op.Gate, Fingerprint(op.Gate, op.Action)), op)
}

// Remove deletes the operation.
func (b PendingBucket) Remove(db crowdsale.KVStore, gate string, fingerprint []byte) error {
	return b.Delete(db, OperationKey(gate, fingerprint))
}

// Clear removes all pending operations of the gate and returns how many
// were dropped.
func (b PendingBucket) Clear(db crowdsale.KVStore, gate string) (int, error) {
	keys, err := b.Keys(db, []byte(gate+"/"))
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := b.Delete(db, k); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// PurgeExpired removes the operations of the gate that can no longer be
// confirmed at now and returns how many were dropped.
func (b PendingBucket) PurgeExpired(db crowdsale.KVStore, gate string, now crowdsale.UnixTime, horizon crowdsale.UnixDuration) (int, error) {
	keys, err := b.Keys(db, []byte(gate+"/"))
	if err != nil {
		return 0, err
	}
	var purged int
	for _, k := range keys {
		var op PendingOperation
		if err := b.One(db, k, &op); err != nil {
			return purged, err
		}
		if !op.Expired(now, horizon) {
			continue
		}
		if err := b.Delete(db, k); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
