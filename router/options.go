package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultTimeout bounds non-streaming requests when no Config is given.
const DefaultTimeout = 30 * time.Second

// Option configures the router via the functional options pattern.
type Option func(*options)

// stage names one middleware of the default chain, in chain order.
type stage int

const (
	stageCORS stage = iota
	stageValidation
	stageTimeout
	stageLogging
)

type options struct {
	config   Config
	logger   *slog.Logger
	swagger  *openapi3.T
	describe func(http.Handler)
	prepend  []Middleware
	append   []Middleware
	override []Middleware
	disabled map[stage]bool
}

func defaultOptions() *options {
	o := &options{
		config:   Config{Timeout: DefaultTimeout},
		logger:   slog.Default(),
		disabled: make(map[stage]bool),
	}
	o.describe = func(http.Handler) {}
	return o
}

func (o *options) middlewareChain() []Middleware {
	if o.override != nil {
		return slices.Clone(o.override)
	}

	chain := slices.Clone(o.prepend)
	chain = append(chain, o.defaultMiddlewares()...)
	return append(chain, o.append...)
}

func (o *options) defaultMiddlewares() []Middleware {
	var chain []Middleware
	// CORS answers preflights before validation sees an OPTIONS request.
	if o.enabled(stageCORS) && len(o.config.CORS.Origins) > 0 {
		chain = append(chain, corsMiddleware(o.config.CORS))
	}
	if o.enabled(stageValidation) && o.swagger != nil {
		chain = append(chain, oapiMiddleware(o.swagger))
	}
	if o.enabled(stageTimeout) && o.config.Timeout > 0 {
		chain = append(chain, timeoutMiddleware(o.config.Timeout, o.config.StreamingRoutes))
	}
	if o.enabled(stageLogging) && o.logger != nil {
		chain = append(chain, loggingMiddleware(o.logger, o.config.QuietdownRoutes, o.config.HideHeaders))
	}
	return chain
}

func (o *options) enabled(s stage) bool {
	return !o.disabled[s]
}

// WithConfig replaces the router configuration with the provided value.
func WithConfig(cfg Config) Option {
	cfg = cfg.clone()
	return func(o *options) {
		o.config = cfg
	}
}

// WithConfigMutator applies a mutation to the router configuration after defaults are set.
func WithConfigMutator(mutator func(*Config)) Option {
	return func(o *options) {
		if mutator != nil {
			mutator(&o.config)
		}
	}
}

// WithStreamingRoutes exempts paths from the timeout middleware. Document
// routes belong here.
func WithStreamingRoutes(paths ...string) Option {
	paths = slices.Clone(paths)
	return func(o *options) {
		o.config.StreamingRoutes = append(o.config.StreamingRoutes, paths...)
	}
}

// WithLogger provides the structured logger to be used by the logging middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSwagger validates requests against swagger. The document is copied
// before its servers are cleared.
func WithSwagger(swagger *openapi3.T) Option {
	return func(o *options) {
		o.swagger = swagger
	}
}

// WithRouteValidation validates requests against the routes of the handler
// passed to New, described with DescribeRoutes. Handlers that cannot list
// their routes are served without validation.
func WithRouteValidation(title, version string) Option {
	return func(o *options) {
		o.describe = func(h http.Handler) {
			lister, ok := h.(routeLister)
			if !ok {
				if o.logger != nil {
					o.logger.Warn("route validation skipped: handler does not list routes")
				}
				return
			}
			o.swagger = DescribeRoutes(title, version, lister.Routes())
		}
	}
}

// WithMiddlewares prepends custom middlewares ahead of the default chain.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.prepend = append(o.prepend, middlewares...)
	}
}

// WithTrailingMiddlewares appends middlewares after the default chain.
func WithTrailingMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.append = append(o.append, middlewares...)
	}
}

// WithMiddlewareChain fully overrides the middleware chain with the provided sequence.
func WithMiddlewareChain(middlewares ...Middleware) Option {
	chain := append([]Middleware{}, middlewares...)
	return func(o *options) {
		o.override = chain
	}
}

// WithoutOpenAPIValidation disables request validation.
func WithoutOpenAPIValidation() Option { return disable(stageValidation) }

// WithoutCORSMiddleware disables the CORS middleware regardless of configuration.
func WithoutCORSMiddleware() Option { return disable(stageCORS) }

// WithoutTimeoutMiddleware disables the timeout middleware.
func WithoutTimeoutMiddleware() Option { return disable(stageTimeout) }

// WithoutLoggingMiddleware disables the logging middleware.
func WithoutLoggingMiddleware() Option { return disable(stageLogging) }

func disable(s stage) Option {
	return func(o *options) {
		o.disabled[s] = true
	}
}
