package routes

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/drblury/docweaver/responder"
)

// Route describes a registered handler for inspection and debugging.
type Route struct {
	Method  string
	Path    string
	Handler string
}

type routeKey struct {
	method string
	path   string
}

// Option configures a Table.
type Option func(*Table)

// WithResponder replaces the responder used for 404 and 405 problems.
func WithResponder(r *responder.Responder) Option {
	return func(t *Table) {
		if r != nil {
			t.responder = r
		}
	}
}

// Table dispatches requests by exact (method, path) match. It doubles as a
// keyed lookup: handlers installed with Put can be retrieved again with
// GetExactMatch.
type Table struct {
	mu        sync.RWMutex
	handlers  map[routeKey]http.Handler
	responder *responder.Responder
}

// NewTable returns an empty route table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		handlers:  make(map[routeKey]http.Handler),
		responder: responder.NewResponder(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Put installs h for method and path, replacing any previous handler for the
// same key. A nil handler removes the route.
func (t *Table) Put(method, path string, h http.Handler) {
	key := routeKey{method: strings.ToUpper(method), path: path}

	t.mu.Lock()
	defer t.mu.Unlock()

	if h == nil {
		delete(t.handlers, key)
		return
	}
	t.handlers[key] = h
}

// GetExactMatch returns the handler stored for method and path, or nil.
func (t *Table) GetExactMatch(method, path string) http.Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.handlers[routeKey{method: strings.ToUpper(method), path: path}]
}

// Routes returns a snapshot of the table sorted by path, then method.
func (t *Table) Routes() []Route {
	t.mu.RLock()
	list := make([]Route, 0, len(t.handlers))
	for key, h := range t.handlers {
		list = append(list, Route{
			Method:  key.method,
			Path:    key.path,
			Handler: fmt.Sprintf("%T", h),
		})
	}
	t.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Path != list[j].Path {
			return list[i].Path < list[j].Path
		}
		return list[i].Method < list[j].Method
	})
	return list
}

// ServeHTTP dispatches to the handler registered for the request method and
// path. HEAD requests fall back to the GET handler.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if h := t.GetExactMatch(r.Method, path); h != nil {
		h.ServeHTTP(w, r)
		return
	}
	if r.Method == http.MethodHead {
		if h := t.GetExactMatch(http.MethodGet, path); h != nil {
			h.ServeHTTP(w, r)
			return
		}
	}

	if allowed := t.allowedMethods(path); len(allowed) > 0 {
		t.responder.HandleMethodNotAllowedError(w, r,
			fmt.Errorf("method %s not allowed for %s", r.Method, path), allowed)
		return
	}

	t.responder.HandleNotFoundError(w, r, fmt.Errorf("no route registered for %s", path))
}

func (t *Table) allowedMethods(path string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var allowed []string
	for key := range t.handlers {
		if key.path == path {
			allowed = append(allowed, key.method)
		}
	}
	sort.Strings(allowed)
	return allowed
}
