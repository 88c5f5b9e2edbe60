package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// ResultSet is the query response format. Keys and values of a query are
// returned as two result sets of the same length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

type resultSetPB ResultSet

func (m *resultSetPB) Reset()         { *m = resultSetPB{} }
func (m *resultSetPB) String() string { return proto.CompactTextString(m) }
func (*resultSetPB) ProtoMessage()    {}

func (m *ResultSet) Marshal() ([]byte, error)   { return proto.Marshal((*resultSetPB)(m)) }
func (m *ResultSet) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*resultSetPB)(m)) }

// ResultsFromKeys collects the keys of models, in order.
func ResultsFromKeys(models []crowdsale.Model) *ResultSet {
	return collect(models, func(m crowdsale.Model) []byte { return m.Key })
}

// ResultsFromValues collects the values of models, in order.
func ResultsFromValues(models []crowdsale.Model) *ResultSet {
	return collect(models, func(m crowdsale.Model) []byte { return m.Value })
}

func collect(models []crowdsale.Model, field func(crowdsale.Model) []byte) *ResultSet {
	out := make([][]byte, len(models))
	for i, m := range models {
		out[i] = field(m)
	}
	return &ResultSet{Results: out}
}

// JoinResults pairs the key and value sets of a query response back into
// models.
func JoinResults(keys, values *ResultSet) ([]crowdsale.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]crowdsale.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = crowdsale.Pair(k, values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of a marshalled ResultSet into
// o. An empty set leaves o untouched.
func UnmarshalOneResult(raw []byte, o crowdsale.Persistent) error {
	var rs ResultSet
	if err := rs.Unmarshal(raw); err != nil {
		return err
	}
	if len(rs.Results) == 0 {
		return nil
	}
	return o.Unmarshal(rs.Results[0])
}
