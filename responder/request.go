package responder

import (
	"context"
	"net/http"
)

// requestScope holds what the response helpers read from a request, which
// may be nil when a helper is called outside a handler.
type requestScope struct {
	ctx      context.Context
	method   string
	instance string
}

func scopeOf(req *http.Request) requestScope {
	scope := requestScope{ctx: context.Background()}
	if req == nil {
		return scope
	}
	scope.ctx = req.Context()
	scope.method = req.Method
	if req.URL != nil {
		scope.instance = req.URL.RequestURI()
	}
	return scope
}

// logAttrs identifies the request in log records.
func (s requestScope) logAttrs() []any {
	if s.method == "" && s.instance == "" {
		return nil
	}
	return []any{"method", s.method, "instance", s.instance}
}
