package apidoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/drblury/docweaver/responder"
)

const (
	// DefaultFileDirectory is where builders look for documentation files
	// when no directory is configured.
	DefaultFileDirectory = "."
	// DefaultBasePath is the route a registry is mounted on by default.
	DefaultBasePath = "/api-doc"
)

// ErrUnknownVersion is returned by Bind and ParseVersion for document
// versions other than V1 and V2.
var ErrUnknownVersion = errors.New("apidoc: unknown document version")

// RouteTable is the subset of a route table the registries need: installing
// a handler and finding it again by exact method and path.
type RouteTable interface {
	Put(method, path string, h http.Handler)
	GetExactMatch(method, path string) http.Handler
}

// Origin carries the per-request values a document may interpolate.
type Origin struct {
	Host     string
	Protocol string
}

// OriginFromRequest derives the origin the client used to reach the server.
func OriginFromRequest(r *http.Request) Origin {
	if r == nil {
		return Origin{Protocol: "http"}
	}
	protocol := "http"
	if r.TLS != nil {
		protocol = "https"
	}
	// Proxy chains append their own scheme; the first one is the client's.
	forwarded, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	if forwarded = strings.TrimSpace(forwarded); forwarded != "" {
		protocol = strings.ToLower(forwarded)
	}
	return Origin{Host: r.Host, Protocol: protocol}
}

// Document is a documentation registry mounted on a route table. V1 and V2
// registries both satisfy it, so callers can pick the version from
// configuration and treat the result uniformly.
type Document interface {
	http.Handler
	// Render writes the whole document to w.
	Render(ctx context.Context, w io.Writer, origin Origin) error
	// Version reports which envelope the document renders.
	Version() Version
}

// Version selects the documentation envelope.
type Version int

const (
	// V1 renders a Swagger 1.2 resource listing with one route per API.
	V1 Version = 1
	// V2 streams a Swagger 2.0 document stitched from fragments.
	V2 Version = 2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "1.2"
	case V2:
		return "2.0"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// ParseVersion accepts "1", "1.2", "2" and "2.0".
func ParseVersion(s string) (Version, error) {
	switch strings.TrimSpace(s) {
	case "1", "1.2":
		return V1, nil
	case "2", "2.0":
		return V2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
}

// Option configures registries and builders.
type Option func(*settings)

type settings struct {
	logger        *slog.Logger
	responder     *responder.Responder
	host          string
	placeholders  bool
	fileDirectory string
	basePath      string
}

func defaultSettings() *settings {
	return &settings{
		logger:        slog.Default(),
		fileDirectory: DefaultFileDirectory,
		basePath:      DefaultBasePath,
	}
}

func buildSettings(opts []Option) *settings {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.responder == nil {
		s.responder = responder.NewResponder(responder.WithLogger(s.logger))
	}
	return s
}

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResponder replaces the responder used to report serving failures.
func WithResponder(r *responder.Responder) Option {
	return func(s *settings) {
		if r != nil {
			s.responder = r
		}
	}
}

// WithHost pins the host written into a V2 document. Without it the host the
// request was addressed to is used.
func WithHost(host string) Option {
	return func(s *settings) {
		s.host = host
	}
}

// WithPlaceholders makes a V2 registry replace {{Host}} and {{Protocol}} in
// fragment output with the request origin. Envelope bytes are never touched.
func WithPlaceholders() Option {
	return func(s *settings) {
		s.placeholders = true
	}
}

// WithFileDirectory sets the directory documentation files are read from.
func WithFileDirectory(dir string) Option {
	return func(s *settings) {
		s.fileDirectory = dir
	}
}

// WithBasePath sets the route the registry is mounted on.
func WithBasePath(path string) Option {
	return func(s *settings) {
		if path != "" {
			s.basePath = path
		}
	}
}

// Bind creates one registry of the requested version and installs it as the
// GET handler for the configured base path. Binding the same base path twice
// yields two independent registries; the table serves the second.
func Bind(table RouteTable, version Version, opts ...Option) (Document, error) {
	switch version {
	case V1:
		return BindV1(table, opts...), nil
	case V2:
		return BindV2(table, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, int(version))
	}
}
