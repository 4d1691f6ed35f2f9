package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/drblury/docweaver/jsonutil"
)

// HTTPDoer represents the subset of *http.Client required by the HTTP probe.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPStatusExpectation determines whether a given HTTP status code is acceptable.
type HTTPStatusExpectation func(status int) bool

// HTTPRequestMutator allows callers to tweak the outbound request prior to dispatch.
type HTTPRequestMutator func(req *http.Request) error

// HTTPResponseValidator inspects the response headers and can veto the probe.
// It runs before the body is read.
type HTTPResponseValidator func(resp *http.Response) error

// HTTPProbeOption configures the behaviour of NewHTTPProbe.
type HTTPProbeOption func(*httpProbe)

type httpProbe struct {
	name       string
	method     string
	target     string
	client     HTTPDoer
	expect     HTTPStatusExpectation
	mutators   []HTTPRequestMutator
	validators []HTTPResponseValidator
	readBody   bool
	checkBody  func(body []byte) error
}

// NewHTTPProbe creates a Func that requests target and succeeds on a 2xx
// status. The body is read to the end, so a document whose stream breaks off
// midway fails the probe. Pointing it at a document base path checks that
// the whole document renders through the server.
func NewHTTPProbe(name, method, target string, client HTTPDoer, opts ...HTTPProbeOption) Func {
	p := &httpProbe{
		name:     name,
		method:   strings.ToUpper(strings.TrimSpace(method)),
		target:   strings.TrimSpace(target),
		client:   client,
		expect:   defaultHTTPStatusExpectation,
		readBody: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.method == "" {
		p.method = http.MethodGet
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	if p.expect == nil {
		p.expect = defaultHTTPStatusExpectation
	}
	return p.run
}

func (p *httpProbe) run(ctx context.Context) error {
	if p.target == "" {
		return fmt.Errorf("%s probe: target URL is required", p.name)
	}

	req, err := http.NewRequestWithContext(contextOrBackground(ctx), p.method, p.target, nil)
	if err != nil {
		return fmt.Errorf("%s probe: failed to build request: %w", p.name, err)
	}
	for _, mutate := range p.mutators {
		if err := mutate(req); err != nil {
			return fmt.Errorf("%s probe: request mutation failed: %w", p.name, err)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s probe request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if err := p.inspect(resp); err != nil {
		return fmt.Errorf("%s probe: %w", p.name, err)
	}
	return nil
}

func (p *httpProbe) inspect(resp *http.Response) error {
	if !p.expect(resp.StatusCode) {
		return fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	for _, validate := range p.validators {
		if err := validate(resp); err != nil {
			return err
		}
	}
	if !p.readBody {
		return nil
	}

	if p.checkBody == nil {
		if n, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fmt.Errorf("body broke off after %d bytes: %w", n, err)
		}
		return nil
	}

	var body bytes.Buffer
	if n, err := body.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("body broke off after %d bytes: %w", n, err)
	}
	return p.checkBody(body.Bytes())
}

// WithHTTPClient overrides the HTTP client used for the probe.
func WithHTTPClient(client HTTPDoer) HTTPProbeOption {
	return func(p *httpProbe) {
		p.client = client
	}
}

// WithHTTPStatusExpectation installs a custom status validation function.
func WithHTTPStatusExpectation(expect HTTPStatusExpectation) HTTPProbeOption {
	return func(p *httpProbe) {
		p.expect = expect
	}
}

// WithHTTPAllowedStatuses restricts the probe to succeed only for the
// provided status codes. With no codes the default 2xx check applies.
func WithHTTPAllowedStatuses(statuses ...int) HTTPProbeOption {
	if len(statuses) == 0 {
		return WithHTTPStatusExpectation(defaultHTTPStatusExpectation)
	}
	allowed := make(map[int]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}
	return WithHTTPStatusExpectation(func(status int) bool {
		_, ok := allowed[status]
		return ok
	})
}

// WithHTTPRequestMutator registers a mutator that runs before the request is dispatched.
func WithHTTPRequestMutator(mutator HTTPRequestMutator) HTTPProbeOption {
	return func(p *httpProbe) {
		if mutator != nil {
			p.mutators = append(p.mutators, mutator)
		}
	}
}

// WithHTTPResponseValidator registers a validator that runs after a response is received.
func WithHTTPResponseValidator(validator HTTPResponseValidator) HTTPProbeOption {
	return func(p *httpProbe) {
		if validator != nil {
			p.validators = append(p.validators, validator)
		}
	}
}

// WithHTTPContentType requires the response to carry the given media type,
// e.g. application/json for a documentation endpoint.
func WithHTTPContentType(mediaType string) HTTPProbeOption {
	return WithHTTPResponseValidator(func(resp *http.Response) error {
		got := resp.Header.Get("Content-Type")
		if !mediaTypeMatches(got, mediaType) {
			return fmt.Errorf("unexpected content type %q, want %s", got, mediaType)
		}
		return nil
	})
}

// WithHTTPJSONBody requires the body to be one well-formed JSON value. A
// fragment with a stray comma passes the status check but fails here.
func WithHTTPJSONBody() HTTPProbeOption {
	return func(p *httpProbe) {
		p.readBody = true
		p.checkBody = func(body []byte) error {
			if len(bytes.TrimSpace(body)) == 0 {
				return errors.New("empty body")
			}
			if !jsonutil.Valid(body) {
				return errors.New("body is not well-formed JSON")
			}
			return nil
		}
	}
}

// WithHTTPDrainResponseBody toggles reading the body at all. Without it the
// probe only sees the status line and headers.
func WithHTTPDrainResponseBody(enabled bool) HTTPProbeOption {
	return func(p *httpProbe) {
		p.readBody = enabled
	}
}
