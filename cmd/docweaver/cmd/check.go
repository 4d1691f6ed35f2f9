package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/drblury/docweaver/apidoc"
	"github.com/drblury/docweaver/jsonutil"
	"github.com/drblury/docweaver/probe"
)

func newCheckCommand(root *rootOptions) *cobra.Command {
	var (
		remote  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Render the document and verify it is well formed",
		Long: `check renders the configured document once.

A version 2 document is parsed as Swagger 2.0, converted to OpenAPI 3 and
validated. For a version 1 listing every registered API file is requested
through its route and must answer 200.

With --url the document is instead fetched from a running server, which
must answer 200 with a well-formed JSON body that arrives in full.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote != "" {
				return checkRemote(cmd, remote, timeout)
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(cmd.Context()) }()

			summary, err := a.check(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return err
		},
	}
	cmd.Flags().StringVar(&remote, "url", "", "document URL of a running server to check instead of rendering locally")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "timeout for --url")
	return cmd
}

func checkRemote(cmd *cobra.Command, target string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	check := probe.NewHTTPProbe("docs", http.MethodGet, target, nil,
		probe.WithHTTPContentType("application/json"),
		probe.WithHTTPJSONBody(),
		probe.WithHTTPRequestMutator(func(req *http.Request) error {
			req.Header.Set("Accept", "application/json")
			return nil
		}),
	)
	if err := check(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", target)
	return err
}

// check renders the document and returns a one line summary.
func (a *app) check(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	origin := apidoc.Origin{Host: "localhost", Protocol: "http"}
	if err := a.doc.Render(ctx, &buf, origin); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	switch reg := a.doc.(type) {
	case *apidoc.Registry20:
		return checkV2(ctx, buf.Bytes())
	case *apidoc.Registry:
		return a.checkV1(ctx, reg)
	default:
		return "", fmt.Errorf("unsupported document %T", a.doc)
	}
}

func checkV2(ctx context.Context, rendered []byte) (string, error) {
	var doc2 openapi2.T
	if err := jsonutil.Unmarshal(rendered, &doc2); err != nil {
		return "", fmt.Errorf("parse swagger 2.0: %w", err)
	}

	doc3, err := openapi2conv.ToV3(&doc2)
	if err != nil {
		return "", fmt.Errorf("convert to openapi 3: %w", err)
	}
	// The envelope carries no info object.
	if doc3.Info == nil || doc3.Info.Title == "" {
		doc3.Info = &openapi3.Info{Title: "docweaver", Version: buildVersion()}
	}
	if err := doc3.Validate(ctx); err != nil {
		return "", fmt.Errorf("validate: %w", err)
	}
	return fmt.Sprintf("ok: swagger %s, %d paths, %d definitions",
		doc2.Swagger, len(doc2.Paths), len(doc2.Definitions)), nil
}

func (a *app) checkV1(ctx context.Context, reg *apidoc.Registry) (string, error) {
	var errs []error
	apis := reg.APIs()
	for _, api := range apis {
		route := reg.BasePath() + api.Path
		h := a.table.GetExactMatch(http.MethodGet, route)
		if h == nil {
			errs = append(errs, fmt.Errorf("%s: no route mounted", route))
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, route, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", route, err))
			continue
		}
		rec := &statusRecorder{header: make(http.Header)}
		h.ServeHTTP(rec, req)
		if rec.status != http.StatusOK {
			errs = append(errs, fmt.Errorf("%s: status %d", route, rec.status))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return "", err
	}
	return fmt.Sprintf("ok: swagger %s, %d apis", apidoc.V1, len(apis)), nil
}

// statusRecorder keeps only the status of an in-process request.
type statusRecorder struct {
	header http.Header
	status int
}

func (r *statusRecorder) Header() http.Header { return r.header }

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return io.Discard.Write(p)
}
