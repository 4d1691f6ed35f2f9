package responder

import (
	"errors"
	"io"
	"net/http"
)

// StreamFunc writes a response body incrementally to w.
type StreamFunc func(w io.Writer) error

// RespondWithStream sets the content type and lets stream write the body
// directly to the client.
//
// A failure before the first byte is written becomes a 500 problem document.
// Once bytes are on the wire the status can no longer change, so the error is
// logged and the handler panics with http.ErrAbortHandler; the server then
// drops the connection and the client observes a truncated response.
func (r *Responder) RespondWithStream(w http.ResponseWriter, req *http.Request, contentType string, stream StreamFunc) {
	if w == nil {
		return
	}
	if stream == nil {
		r.HandleInternalServerError(w, req, errors.New("response stream not configured"))
		return
	}

	w.Header().Set("Content-Type", resolveContentType(contentType, jsonContentType))
	cw := &countingWriter{w: w}
	err := stream(cw)
	if err == nil {
		return
	}

	if cw.n == 0 {
		r.HandleInternalServerError(w, req, err, "failed to stream response")
		return
	}

	scope := scopeOf(req)
	attrs := append(scope.logAttrs(), "error", err, "bytesWritten", cw.n)
	r.logger().ErrorContext(scope.ctx, "response stream aborted", attrs...)
	panic(http.ErrAbortHandler)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
