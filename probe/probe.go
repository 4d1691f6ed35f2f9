package probe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/drblury/docweaver/apidoc"
)

// Func represents a health check that returns an error when the resource is unavailable.
type Func func(ctx context.Context) error

// PingFunc represents a bespoke check wrapped by NewPingProbe.
type PingFunc func(ctx context.Context) error

// Renderer is the subset of apidoc.Document the document probe needs.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, origin apidoc.Origin) error
}

// MongoPinger captures the subset of the MongoDB client used for readiness checks.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// NewPingProbe wraps a PingFunc with standardised error handling.
func NewPingProbe(name string, fn PingFunc) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return nilComponentError(name, "ping function")
		}
		ctx = contextOrBackground(ctx)

		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewDocumentProbe renders doc into io.Discard. The probe fails when any
// fragment cannot be produced, e.g. a documentation file was removed or the
// fragment store is unreachable.
func NewDocumentProbe(name string, doc Renderer) Func {
	return func(ctx context.Context) error {
		if doc == nil {
			return nilComponentError(name, "document")
		}
		ctx = contextOrBackground(ctx)

		if err := doc.Render(ctx, io.Discard, apidoc.Origin{Protocol: "http"}); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewMongoPingProbe creates a Func that pings MongoDB using the provided client.
// If readPref is nil it defaults to readpref.Primary.
func NewMongoPingProbe(client MongoPinger, readPref *readpref.ReadPref) Func {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("mongo probe: client is nil")
		}

		ctx = contextOrBackground(ctx)

		rp := readPref
		if rp == nil {
			rp = readpref.Primary()
		}

		if err := client.Ping(ctx, rp); err != nil {
			return fmt.Errorf("mongo probe failed: %w", err)
		}
		return nil
	}
}
