package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const tmGenesis = `{
  "genesis_time": "2019-03-01T10:00:00Z",
  "chain_id": "test-chain",
  "validators": []
}`

func cashState(addr string) GenOptions {
	return func(args []string) (json.RawMessage, error) {
		if len(args) > 0 {
			addr = args[0]
		}
		return json.RawMessage(`{"cash": [{"address": "` + addr + `", "balance": "5ether"}]}`), nil
	}
}

func newHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "saled-home")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0755))
	genesis := filepath.Join(home, "config", "genesis.json")
	require.NoError(t, ioutil.WriteFile(genesis, []byte(tmGenesis), 0600))
	return home, func() { os.RemoveAll(home) }
}

func TestInitAndValidate(t *testing.T) {
	home, cleanup := newHome(t)
	defer cleanup()
	logger := log.NewNopLogger()
	genesis := filepath.Join(home, "config", "genesis.json")
	const addr = "0102030405060708090021222324252627282930"

	require.NoError(t, InitCmd(cashState(addr), logger, home, nil))

	doc, err := readGenesis(genesis)
	require.NoError(t, err)
	assert.Equal(t, `"test-chain"`, string(doc["chain_id"]))
	assert.Contains(t, string(doc[appStateKey]), addr)

	require.NoError(t, ValidateGenesis(cash.Initializer{}, []string{genesis}))

	// The app state is not replaced unless forced.
	err = InitCmd(cashState(addr), logger, home, []string{"invalid"})
	require.Error(t, err)
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, InitCmd(cashState(addr), logger, home, []string{"--force", "invalid"}))
	err = ValidateGenesis(cash.Initializer{}, []string{genesis})
	require.Error(t, err)
}

func TestInitWithoutGenesis(t *testing.T) {
	home, err := ioutil.TempDir("", "saled-empty")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	err = InitCmd(cashState(""), log.NewNopLogger(), home, nil)
	require.Error(t, err)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestValidateGenesisErrors(t *testing.T) {
	err := ValidateGenesis(cash.Initializer{}, nil)
	assert.True(t, errors.ErrInput.Is(err))

	err = ValidateGenesis(cash.Initializer{}, []string{"/does/not/exist.json"})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestParseStartFlags(t *testing.T) {
	defaults := Options{Bind: "tcp://localhost:26658"}
	logger := log.NewNopLogger()

	opts, err := ParseStartFlags("/tmp/home", logger, defaults, nil)
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:26658", opts.Bind)
	assert.Equal(t, "/tmp/home", opts.Home)
	assert.False(t, opts.Debug)
	assert.Empty(t, opts.Metrics)

	opts, err = ParseStartFlags("/tmp/home", logger, defaults, []string{"--bind", "unix:///tmp/abci.sock", "--debug", "--metrics", ":9100"})
	require.NoError(t, err)
	assert.Equal(t, "unix:///tmp/abci.sock", opts.Bind)
	assert.True(t, opts.Debug)
	assert.Equal(t, ":9100", opts.Metrics)

	_, err = ParseStartFlags("/tmp/home", logger, defaults, []string{"--unknown"})
	assert.True(t, errors.ErrInput.Is(err))
}
