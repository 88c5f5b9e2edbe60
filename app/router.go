package app

import (
	"fmt"
	"regexp"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]crowdsale.Handler
}

var _ crowdsale.Registry = (*Router)(nil)
var _ crowdsale.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]crowdsale.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h crowdsale.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// route returns the Handler registered for the path of the transaction
// message. If no path is found, returns a notFoundHandler.
func (r *Router) route(tx crowdsale.Tx) (crowdsale.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	if h, ok := r.routes[msg.Path()]; ok {
		return h, nil
	}
	return notFoundHandler(msg.Path()), nil
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments passed.
type notFoundHandler string

func (path notFoundHandler) Check(crowdsale.Context, crowdsale.KVStore, crowdsale.Tx) (*crowdsale.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(crowdsale.Context, crowdsale.KVStore, crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
