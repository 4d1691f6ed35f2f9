package router

import (
	"net/http"
	"slices"
	"time"
)

// Config holds the settings of the default middleware chain.
type Config struct {
	// Timeout bounds request handling. Zero disables the timeout middleware.
	Timeout time.Duration
	CORS    CORSConfig
	// QuietdownRoutes are paths the logging middleware skips, e.g. probes.
	QuietdownRoutes []string
	// HideHeaders are request headers whose values are redacted in logs.
	HideHeaders []string
	// StreamingRoutes bypass the timeout middleware, which buffers the whole
	// response and would hide a failure that happens mid-stream.
	StreamingRoutes []string
}

// CORSConfig controls the CORS middleware. It is only installed when at
// least one origin is configured. Origins may contain "*".
type CORSConfig struct {
	Origins []string
	// Methods defaults to DefaultCORSMethods.
	Methods          []string
	Headers          []string
	AllowCredentials bool
}

// DefaultCORSMethods are the methods the documentation routes answer.
var DefaultCORSMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

func (c Config) clone() Config {
	c.QuietdownRoutes = slices.Clone(c.QuietdownRoutes)
	c.HideHeaders = slices.Clone(c.HideHeaders)
	c.StreamingRoutes = slices.Clone(c.StreamingRoutes)
	c.CORS.Origins = slices.Clone(c.CORS.Origins)
	c.CORS.Methods = slices.Clone(c.CORS.Methods)
	c.CORS.Headers = slices.Clone(c.CORS.Headers)
	return c
}
