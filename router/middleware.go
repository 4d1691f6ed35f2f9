package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"
)

func oapiMiddleware(swagger *openapi3.T) Middleware {
	// Without servers the validator matches on path alone, whatever host
	// the documentation is reached through.
	doc := *swagger
	doc.Servers = nil

	validatorOptions := &oapiMW.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
	}
	return oapiMW.OapiRequestValidatorWithOptions(&doc, validatorOptions)
}

// corsMiddleware answers preflight requests itself and marks allowed
// origins on every other response.
func corsMiddleware(cfg CORSConfig) Middleware {
	methods := cfg.Methods
	if len(methods) == 0 {
		methods = DefaultCORSMethods
	}
	allowMethods := strings.Join(methods, ",")
	allowHeaders := strings.Join(cfg.Headers, ",")
	wildcard := false
	for _, origin := range cfg.Origins {
		wildcard = wildcard || origin == "*"
	}
	origins := newPathSet(cfg.Origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			if wildcard || origins.has(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", allowMethods)
				if allowHeaders != "" {
					h.Set("Access-Control-Allow-Headers", allowHeaders)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// timeoutMiddleware bounds request handling. http.TimeoutHandler buffers the
// whole response, so streaming routes reach next directly.
func timeoutMiddleware(timeout time.Duration, streamingRoutes []string) Middleware {
	streaming := newPathSet(streamingRoutes)

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, "Timeout")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if streaming.has(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			bounded.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs each request at debug level once it completes.
func loggingMiddleware(logger *slog.Logger, quietdownRoutes []string, hideHeaders []string) Middleware {
	logger.Debug("request logging configured",
		"quietdownRoutes", quietdownRoutes,
		"hideHeaders", hideHeaders,
	)
	quiet := newPathSet(quietdownRoutes)
	hidden := make([]string, len(hideHeaders))
	for i, header := range hideHeaders {
		hidden[i] = http.CanonicalHeaderKey(header)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quiet.has(r.URL.Path) || !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &recordingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			logger.DebugContext(r.Context(), "request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode(),
				"bytes", rec.written,
				"duration", time.Since(start),
				"header", redactedHeaders(r.Header, hidden),
			)
		})
	}
}

// recordingWriter counts what a handler wrote. It stays flushable so
// streamed documents are not held back.
type recordingWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *recordingWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *recordingWriter) Flush() {
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *recordingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *recordingWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func redactedHeaders(src http.Header, hidden []string) http.Header {
	headers := src.Clone()
	for _, key := range hidden {
		values, ok := headers[key]
		if !ok {
			continue
		}
		size := 0
		for _, v := range values {
			size += len(v)
		}
		headers[key] = []string{fmt.Sprintf("[redacted %d bytes]", size)}
	}
	return headers
}
