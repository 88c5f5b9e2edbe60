package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStorePersistsWrittenCache(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cs, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, cs.LoadLatestVersion())

	deliver := cs.CacheWrap()
	require.NoError(t, deliver.Set([]byte("sale"), []byte("active")))
	require.NoError(t, deliver.Set([]byte("funds"), []byte("gathering")))

	// nothing is visible before the cache is written
	got, err := cs.Get([]byte("sale"))
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, deliver.Write())
	id, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = cs.Get([]byte("sale"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), got)

	latest, err := cs.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestAdapterIteratesWorkingTree(t *testing.T) {
	cs, err := NewCommitStore("", "")
	require.NoError(t, err)

	kv := cs.Adapter()
	require.NoError(t, kv.Set([]byte("k1"), []byte("v1")))
	require.NoError(t, kv.Set([]byte("k2"), []byte("v2")))
	require.NoError(t, kv.Set([]byte("k3"), []byte("v3")))
	require.NoError(t, kv.Delete([]byte("k2")))

	it, err := kv.ReverseIterator(nil, nil)
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for ; it.Valid(); require.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"k3", "k1"}, keys)

	ok, err := kv.Has([]byte("k2"))
	require.NoError(t, err)
	assert.False(t, ok)
}
