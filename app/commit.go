package app

import (
	"sync"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// CommitStore keeps two independent cache layers above the committed state.
// CheckTx and DeliverTx each write into their own layer. Only the deliver
// layer reaches the disk, on Commit.
type CommitStore struct {
	mu        sync.Mutex
	committed crowdsale.CommitKVStore
	deliver   crowdsale.KVCacheWrap
	check     crowdsale.KVCacheWrap
}

// NewCommitStore loads the latest persisted version of store. A store that
// cannot be loaded leaves the node unusable, so it panics.
func NewCommitStore(store crowdsale.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load latest version"))
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (crowdsale.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered since the last commit. Pending check
// state is dropped and both layers start over from the new version.
func (cs *CommitStore) Commit() (crowdsale.CommitID, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.deliver.Write(); err != nil {
		return crowdsale.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// CheckStore is the layer CheckTx runs against.
func (cs *CommitStore) CheckStore() crowdsale.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.check
}

// DeliverStore is the layer DeliverTx and InitChain write to.
func (cs *CommitStore) DeliverStore() crowdsale.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.deliver
}

// snapshot returns a throwaway view over the committed state. Queries never
// see uncommitted writes.
func (cs *CommitStore) snapshot() crowdsale.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// Keys under the "_app:" prefix belong to the node, not to any extension.
var chainIDKey = []byte("_app:chain_id")

// mustLoadChainID returns the chain id recorded at genesis, or an empty
// string before InitChain ran.
func mustLoadChainID(kv crowdsale.ReadOnlyKVStore) string {
	raw, err := kv.Get(chainIDKey)
	if err != nil {
		panic(errors.Wrap(err, "load chain id"))
	}
	return string(raw)
}

// saveChainID records the chain id. It can be written exactly once.
func saveChainID(kv crowdsale.KVStore, chainID string) error {
	if !crowdsale.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := kv.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is fixed at genesis")
	}
	return errors.Wrap(kv.Set(chainIDKey, []byte(chainID)), "save chain id")
}
