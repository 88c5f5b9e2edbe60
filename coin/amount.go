package coin

import (
	"encoding/json"
	"math/big"
	"regexp"
	"strings"

	"github.com/mixbytes/crowdsale/errors"
)

// MaxBytes is the longest accepted big-endian representation of an amount.
const MaxBytes = 32

// Amount is a non negative quantity of value or issued units. It is stored as
// the minimal big-endian representation of an unsigned integer, so a zero
// amount has no bytes at all.
//
// A nil *Amount is a valid zero amount and all methods accept it. Models
// embed it as a nested protobuf message.
type Amount struct {
	Value []byte `protobuf:"bytes,1,opt,name=value,proto3" json:"value,omitempty"`
}

// NewAmount returns an amount of given units.
func NewAmount(units uint64) *Amount {
	return FromBig(new(big.Int).SetUint64(units))
}

// FromBig returns an amount representing given integer. A negative value
// is a programming error and results in a panic.
func FromBig(b *big.Int) *Amount {
	if b.Sign() < 0 {
		panic("negative amount")
	}
	if b.Sign() == 0 {
		return &Amount{}
	}
	return &Amount{Value: b.Bytes()}
}

// Big returns a copy of the amount as a big integer.
func (m *Amount) Big() *big.Int {
	if m == nil {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(m.Value)
}

// IsZero returns true if this amount represents nothing.
func (m *Amount) IsZero() bool {
	return m == nil || len(m.Value) == 0
}

// Cmp compares two amounts and returns -1, 0 or +1.
func (m *Amount) Cmp(o *Amount) int {
	return m.Big().Cmp(o.Big())
}

// Equals returns true if both amounts represent the same quantity.
func (m *Amount) Equals(o *Amount) bool {
	return m.Cmp(o) == 0
}

// Add returns the sum of both amounts.
func (m *Amount) Add(o *Amount) *Amount {
	return FromBig(new(big.Int).Add(m.Big(), o.Big()))
}

// Sub returns the difference of both amounts. Going below zero is not
// allowed.
func (m *Amount) Sub(o *Amount) (*Amount, error) {
	res := new(big.Int).Sub(m.Big(), o.Big())
	if res.Sign() < 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "%s is less than %s", m, o)
	}
	return FromBig(res), nil
}

// Mul returns the amount multiplied by n.
func (m *Amount) Mul(n uint64) *Amount {
	return FromBig(new(big.Int).Mul(m.Big(), new(big.Int).SetUint64(n)))
}

// Div returns the amount divided by n, truncated toward zero, together with
// the remainder.
func (m *Amount) Div(n uint64) (*Amount, *Amount) {
	if n == 0 {
		panic("division by zero")
	}
	q, r := new(big.Int).QuoRem(m.Big(), new(big.Int).SetUint64(n), new(big.Int))
	return FromBig(q), FromBig(r)
}

// Min returns the smaller of two amounts.
func Min(a, b *Amount) *Amount {
	if a.Cmp(b) <= 0 {
		return a.Clone()
	}
	return b.Clone()
}

// Clone returns an independent copy. A nil amount is cloned into a zero one.
func (m *Amount) Clone() *Amount {
	return FromBig(m.Big())
}

// Validate returns an error if the binary representation is not canonical.
func (m *Amount) Validate() error {
	if m == nil {
		return nil
	}
	if len(m.Value) > MaxBytes {
		return errors.Wrap(errors.ErrOverflow, "amount too big")
	}
	if len(m.Value) > 0 && m.Value[0] == 0 {
		return errors.Wrap(errors.ErrAmount, "non canonical encoding")
	}
	return nil
}

// String returns the decimal representation.
func (m *Amount) String() string {
	return m.Big().String()
}

// MarshalJSON serializes the amount as a decimal string to avoid precision
// loss in JSON consumers.
func (m *Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON number or a string in the ParseAmount format.
func (m *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "amount must be a string or a number")
		}
		s = n.String()
	}
	a, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*m = *a
	return nil
}

var (
	amountFormat = regexp.MustCompile(`^([0-9]+)\s*([a-z]*)$`)

	units = map[string]*big.Int{
		"":       big.NewInt(1),
		"wei":    big.NewInt(1),
		"finney": new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil),
		"ether":  new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
	}
)

// ParseAmount decodes a human readable amount. The number may be followed
// by a unit name (wei, finney or ether), for example "400finney" or "2 ether".
func ParseAmount(s string) (*Amount, error) {
	chunks := amountFormat.FindStringSubmatch(strings.TrimSpace(s))
	if chunks == nil {
		return nil, errors.Wrapf(errors.ErrAmount, "invalid format %q", s)
	}
	n, ok := new(big.Int).SetString(chunks[1], 10)
	if !ok {
		return nil, errors.Wrapf(errors.ErrAmount, "invalid number %q", chunks[1])
	}
	unit, ok := units[chunks[2]]
	if !ok {
		return nil, errors.Wrapf(errors.ErrAmount, "unknown unit %q", chunks[2])
	}
	a := FromBig(n.Mul(n, unit))
	return a, a.Validate()
}

// MustParse is ParseAmount that panics on error. Use it only for constants
// and in tests.
func MustParse(s string) *Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}
