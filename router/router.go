package router

import (
	"net/http"

	"github.com/drblury/docweaver/routes"
)

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware func(http.Handler) http.Handler

// routeLister is implemented by *routes.Table.
type routeLister interface {
	Routes() []routes.Route
}

// New returns a *http.ServeMux that serves apiHandle, usually a
// *routes.Table, through the configured middleware chain.
//
// WithRouteValidation describes apiHandle's routes once, here. Routes put on
// the table afterwards are rejected by the validator.
func New(apiHandle http.Handler, opts ...Option) *http.ServeMux {
	if apiHandle == nil {
		panic("router: handler cannot be nil")
	}

	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}
	settings.describe(apiHandle)

	mux := http.NewServeMux()
	mux.Handle("/", applyMiddlewares(apiHandle, settings.middlewareChain()))
	return mux
}

func applyMiddlewares(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}

// pathSet matches request paths exactly, like the route table does.
type pathSet map[string]struct{}

func newPathSet(paths []string) pathSet {
	set := make(pathSet, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

func (s pathSet) has(path string) bool {
	_, ok := s[path]
	return ok
}
