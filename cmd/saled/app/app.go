/*
Package app links together all the various components
to construct the crowdsale chain application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/app"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/orm"
	"github.com/mixbytes/crowdsale/store/iavl"
	"github.com/mixbytes/crowdsale/x"
	"github.com/mixbytes/crowdsale/x/cash"
	"github.com/mixbytes/crowdsale/x/funds"
	"github.com/mixbytes/crowdsale/x/multiowned"
	"github.com/mixbytes/crowdsale/x/sale"
	"github.com/mixbytes/crowdsale/x/sigs"
	"github.com/mixbytes/crowdsale/x/token"
	"github.com/mixbytes/crowdsale/x/utils"
)

// Authenticator returns the authentication used by all handlers. A caller
// is authenticated by a signature, by a gate that confirmed the executed
// action or by the sale acting on its own behalf.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, multiowned.Authenticate{}, sale.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, a failed message does not change the state but
		// the signature sequence is still incremented
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns the router of all messages. Actions confirmed by a gate
// are executed through the same router.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cashCtrl := cash.NewController()

	cash.RegisterRoutes(r, authFn, cashCtrl)
	token.RegisterRoutes(r, authFn)
	funds.RegisterRoutes(r, authFn, cashCtrl)

	executor := multiowned.HandlerAsExecutor(
		app.ChainDecorators(utils.NewActionTagger()).WithHandler(r),
	)
	multiowned.RegisterRoutes(r, authFn, messages, executor)

	keeper := sale.NewKeeper(authFn,
		funds.NewKeeper(authFn, cashCtrl),
		token.NewKeeper(authFn),
		multiowned.NewController(authFn),
	)
	sale.RegisterRoutes(r, authFn, keeper)
	return r
}

// QueryRouter returns a default query router, allowing access to every
// bucket of the application and to the raw store under "/".
func QueryRouter() crowdsale.QueryRouter {
	r := crowdsale.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		token.RegisterQuery,
		funds.RegisterQuery,
		multiowned.RegisterQuery,
		sale.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() crowdsale.Initializer {
	return crowdsale.ChainInitializers(
		cash.Initializer{},
		multiowned.Initializer{},
		token.Initializer{},
		funds.Initializer{},
		sale.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() crowdsale.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h crowdsale.Handler, tx crowdsale.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path means an in memory store.
func CommitKVStore(dbPath string) (crowdsale.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewCommitStore("", "")
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name %q", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
