package orm

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr crowdsale.Iterator) ([]crowdsale.Model, error) {
	defer itr.Close()

	var res []crowdsale.Model
	for itr.Valid() {
		mod := crowdsale.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		}
		res = append(res, mod)
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func queryPrefix(db crowdsale.ReadOnlyKVStore, prefix []byte) ([]crowdsale.Model, error) {
	itr, err := db.Iterator(prefix, prefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRangeEnd returns the []byte that would end a
// range query for all []byte with a certain prefix
// Deals with last byte of prefix being FF without overflowing
func prefixRangeEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)

	for {
		if end[len(end)-1] != byte(255) {
			end[len(end)-1]++
			break
		} else {
			end = end[:len(end)-1]
			if len(end) == 0 {
				end = nil
				break
			}
		}
	}
	return end
}

// RegisterQuery exposes the raw store under "/". A plain query returns the
// value of the key, a "?prefix" query every pair starting with the data.
func RegisterQuery(qr crowdsale.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db crowdsale.ReadOnlyKVStore, mod string, data []byte) ([]crowdsale.Model, error) {
	switch mod {
	case crowdsale.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil || value == nil {
			return nil, err
		}
		return []crowdsale.Model{crowdsale.Pair(data, value)}, nil
	case crowdsale.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod %q", mod)
	}
}
