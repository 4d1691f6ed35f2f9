package apidoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/drblury/docweaver/fragment"
	"github.com/drblury/docweaver/jsonutil"
)

// The V2 envelope. Preamble(host, basePath) opens the document and the
// "paths" object, API fragments follow, PathsDefinitionsSeparator closes
// "paths" and opens "definitions", definition fragments follow, and
// DocumentClosing ends the document.
const (
	preambleOpen     = "{\n  \"swagger\": \"2.0\",\n  \"host\": "
	preambleBasePath = ",\n  \"basePath\": "
	preamblePaths    = ",\n  \"paths\": {\n"

	// PathsDefinitionsSeparator sits between the last API fragment and the
	// first definition fragment.
	PathsDefinitionsSeparator = "\n  },\n  \"definitions\": {\n"
	// DocumentClosing follows the last definition fragment.
	DocumentClosing = "\n  }\n}\n"
)

// Preamble returns the envelope bytes written before the first API fragment.
// host and basePath are written as JSON string literals.
func Preamble(host, basePath string) ([]byte, error) {
	quotedHost, err := jsonutil.Quote(host)
	if err != nil {
		return nil, fmt.Errorf("apidoc: encode host: %w", err)
	}
	quotedBase, err := jsonutil.Quote(basePath)
	if err != nil {
		return nil, fmt.Errorf("apidoc: encode base path: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(preambleOpen) + len(quotedHost) + len(preambleBasePath) + len(quotedBase) + len(preamblePaths))
	buf.WriteString(preambleOpen)
	buf.Write(quotedHost)
	buf.WriteString(preambleBasePath)
	buf.Write(quotedBase)
	buf.WriteString(preamblePaths)
	return buf.Bytes(), nil
}

// Registry20 streams a Swagger 2.0 document assembled from fragments. Nothing
// is cached: each render replays every fragment, in registration order, one
// at a time, into the same writer.
//
// Registration is meant for startup and is not synchronised with serving.
// Concurrent renders are fine as long as the fragments are.
type Registry20 struct {
	settings    *settings
	apis        []fragment.Fragment
	definitions []fragment.Fragment
}

var _ Document = (*Registry20)(nil)

// NewRegistry20 creates a V2 registry without mounting it.
func NewRegistry20(opts ...Option) *Registry20 {
	return &Registry20{settings: buildSettings(opts)}
}

// BindV2 creates a V2 registry and installs it as the GET handler for the base
// path. Unlike V1, registering fragments later never adds routes.
func BindV2(table RouteTable, opts ...Option) *Registry20 {
	reg := NewRegistry20(opts...)
	table.Put(http.MethodGet, reg.settings.basePath, reg)
	return reg
}

// Version reports V2.
func (r *Registry20) Version() Version {
	return V2
}

// BasePath returns the route the document is served on and the value written
// into its basePath field.
func (r *Registry20) BasePath() string {
	return r.settings.basePath
}

// AddAPI appends a fragment to the "paths" section. Nil fragments are ignored.
func (r *Registry20) AddAPI(f fragment.Fragment) {
	if f == nil {
		r.settings.logger.Debug("ignoring nil api fragment", "basePath", r.settings.basePath)
		return
	}
	r.apis = append(r.apis, f)
}

// AddDefinition appends a fragment to the "definitions" section. Nil
// fragments are ignored.
func (r *Registry20) AddDefinition(f fragment.Fragment) {
	if f == nil {
		r.settings.logger.Debug("ignoring nil definition fragment", "basePath", r.settings.basePath)
		return
	}
	r.definitions = append(r.definitions, f)
}

// FragmentCounts reports how many API and definition fragments are registered.
func (r *Registry20) FragmentCounts() (apis, definitions int) {
	return len(r.apis), len(r.definitions)
}

// Render streams the document to w. The first failing fragment aborts the
// render; whatever was already written stays written.
func (r *Registry20) Render(ctx context.Context, w io.Writer, origin Origin) error {
	if r.settings.host != "" {
		origin.Host = r.settings.host
	}

	preamble, err := Preamble(origin.Host, r.settings.basePath)
	if err != nil {
		return err
	}
	if _, err := w.Write(preamble); err != nil {
		return fmt.Errorf("apidoc: write preamble: %w", err)
	}

	for i, f := range r.apis {
		if err := r.writeFragment(ctx, w, f, origin); err != nil {
			return fmt.Errorf("apidoc: api fragment %d: %w", i+1, err)
		}
	}

	if _, err := io.WriteString(w, PathsDefinitionsSeparator); err != nil {
		return fmt.Errorf("apidoc: write separator: %w", err)
	}

	for i, f := range r.definitions {
		if err := r.writeFragment(ctx, w, f, origin); err != nil {
			return fmt.Errorf("apidoc: definition fragment %d: %w", i+1, err)
		}
	}

	if _, err := io.WriteString(w, DocumentClosing); err != nil {
		return fmt.Errorf("apidoc: write closing: %w", err)
	}
	return nil
}

func (r *Registry20) writeFragment(ctx context.Context, w io.Writer, f fragment.Fragment, origin Origin) error {
	if !r.settings.placeholders {
		return f.WriteFragment(ctx, w)
	}

	var buf bytes.Buffer
	if err := f.WriteFragment(ctx, &buf); err != nil {
		return err
	}
	replacer := strings.NewReplacer("{{Host}}", origin.Host, "{{Protocol}}", origin.Protocol)
	_, err := replacer.WriteString(w, buf.String())
	return err
}

func (r *Registry20) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	origin := OriginFromRequest(req)
	r.settings.responder.RespondWithStream(w, req, "application/json", func(out io.Writer) error {
		return r.Render(req.Context(), out, origin)
	})
}
