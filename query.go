package crowdsale

import (
	"regexp"

	"github.com/mixbytes/crowdsale/errors"
)

// Query modifiers, passed after "?" in the query path.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key and value returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair builds a Model.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers read only queries against the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is how an extension publishes its query handlers.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to handlers, much like http.ServeMux maps
// URLs. Paths are matched exactly.
type QueryRouter struct {
	routes map[string]QueryHandler
}

var validQueryPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`)

// NewQueryRouter returns a router without any route.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with r.
func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register binds h to path. A malformed or already taken path is a
// programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	switch _, taken := r.routes[path]; {
	case !validQueryPath.MatchString(path):
		panic(errors.Wrapf(errors.ErrInput, "invalid query path %q", path))
	case taken:
		panic(errors.Wrapf(errors.ErrDuplicate, "re-register query path %q", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
