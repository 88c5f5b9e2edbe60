package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp owns the application state and answers every ABCI call that does
// not carry a transaction: Info, Query, InitChain, BeginBlock, EndBlock and
// Commit. BaseApp embeds it and adds CheckTx and DeliverTx.
//
// Calls that take no user input have no way to report a failure back to
// tendermint. When they fail the node is in an undefined state and StoreApp
// panics.
type StoreApp struct {
	name        string
	logger      log.Logger
	store       *CommitStore
	initializer crowdsale.Initializer
	queries     crowdsale.QueryRouter

	// chainID is empty until InitChain stored it.
	chainID string

	// baseCtx lives as long as the process, blockCtx is replaced on
	// every BeginBlock.
	baseCtx  crowdsale.Context
	blockCtx crowdsale.Context
}

// NewStoreApp loads the latest committed state from store. The returned
// application logs nowhere until WithLogger is called.
func NewStoreApp(name string, store crowdsale.CommitKVStore, queries crowdsale.QueryRouter, ctx crowdsale.Context) *StoreApp {
	s := &StoreApp{
		name:    name,
		store:   NewCommitStore(store),
		queries: queries,
		baseCtx: ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if id := mustLoadChainID(s.DeliverStore()); id != "" {
		s.setChainID(id)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockCtx = crowdsale.WithHeight(s.baseCtx, info.Version)
	return s
}

// GetChainID returns the chain id fixed at genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

func (s *StoreApp) setChainID(id string) {
	s.chainID = id
	s.baseCtx = crowdsale.WithChainID(s.baseCtx, id)
}

// WithInit sets the initializer that loads the genesis app_state.
func (s *StoreApp) WithInit(init crowdsale.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger replaces the logger of the app and of every context it creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseCtx = crowdsale.WithLogger(s.baseCtx, logger)
	return s
}

// Logger returns the application logger.
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext is the context of the block being processed.
func (s *StoreApp) BlockContext() crowdsale.Context {
	return s.blockCtx
}

// DeliverStore returns the cache DeliverTx writes to.
func (s *StoreApp) DeliverStore() crowdsale.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the cache CheckTx writes to.
func (s *StoreApp) CheckStore() crowdsale.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis runs once, on the very first InitChain. Restarts replay from
// the stored state and never get here.
func (s *StoreApp) loadGenesis(raw []byte, chainID string) error {
	switch {
	case s.chainID != "":
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	case len(raw) == 0:
		return errors.Wrap(errors.ErrState, "genesis app_state is empty, run init first")
	case s.initializer == nil:
		return errors.Wrap(errors.ErrHuman, "no initializer")
	}

	var opts crowdsale.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// Info reports the last committed height and app hash so tendermint knows
// which blocks to replay.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("state loaded",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not implemented"}
}

// Query reads committed state. The path selects a registered query handler,
// an optional "?prefix" suffix turns the lookup into a prefix scan. "/" is
// the raw store.
//
// Key and Value of the response each hold a marshalled ResultSet. Both sets
// always have the same length, which may be zero.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queries.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.snapshot()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath cuts the query modifier following "?" off the path.
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, msg := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: msg}
}

// Commit persists the block and returns the new app hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("block committed",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the app_state of the genesis file through the initializer.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock records the header, height and block time for the
// transactions of this block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	h := req.Header
	ctx := crowdsale.WithHeader(s.baseCtx, h)
	ctx = crowdsale.WithHeight(ctx, h.GetHeight())
	s.blockCtx = crowdsale.WithBlockTime(ctx, h.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
