package info

import (
	"html/template"
	"net/http"
	"time"

	"github.com/drblury/docweaver/apidoc"
	"github.com/drblury/docweaver/probe"
	"github.com/drblury/docweaver/responder"
)

// InfoProvider returns the payload that will be exposed by the version endpoint.
type InfoProvider func() any

// InfoOption configures an InfoHandler.
type InfoOption func(*InfoHandler)

// TemplateDataProvider builds the data passed to the viewer template for a
// request. specURL is the configured location of the rendered document.
type TemplateDataProvider func(r *http.Request, specURL string) any

const defaultProbeTimeout = 2 * time.Second

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

// InfoHandler serves build information, status checks and the document
// viewer.
type InfoHandler struct {
	*responder.Responder
	title           string
	specURL         string
	infoProvider    InfoProvider
	viewerTemplate  *template.Template
	dataProvider    TemplateDataProvider
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
	uiType          UIType
}

// NewInfoHandler constructs an InfoHandler whose viewer points at
// apidoc.DefaultBasePath.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		title:     "API documentation",
		specURL:   apidoc.DefaultBasePath,
		infoProvider: func() any {
			return map[string]string{}
		},
		viewerTemplate: templateStoplight,
		probeTimeout:   defaultProbeTimeout,
		uiType:         UIStoplight,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used to craft JSON responses and
// handle error reporting.
func WithInfoResponder(responder *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if responder != nil {
			ih.Responder = responder
		}
	}
}

// WithSpecURL sets where the viewer fetches the document from, normally the
// registry's base path.
func WithSpecURL(specURL string) InfoOption {
	return func(ih *InfoHandler) {
		if specURL != "" {
			ih.specURL = specURL
		}
	}
}

// WithTitle sets the page title of the viewer.
func WithTitle(title string) InfoOption {
	return func(ih *InfoHandler) {
		if title != "" {
			ih.title = title
		}
	}
}

// WithInfoProvider swaps the default metadata provider.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithViewerTemplate injects a custom html/template used to render the
// viewer page.
func WithViewerTemplate(tmpl *template.Template) InfoOption {
	return func(ih *InfoHandler) {
		if tmpl != nil {
			ih.viewerTemplate = tmpl
		}
	}
}

// WithViewerTemplateData overrides the template data provider that runs for
// each viewer request.
func WithViewerTemplateData(provider TemplateDataProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.dataProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks.
func WithLivenessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the readiness checks.
func WithReadinessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}

// WithUIType selects the bundled viewer. Unknown values fall back to
// UIStoplight.
func WithUIType(uiType UIType) InfoOption {
	return func(ih *InfoHandler) {
		ih.uiType = uiType
		ih.viewerTemplate = templateFor(uiType)
	}
}

// UIType reports the selected viewer.
func (ih *InfoHandler) UIType() UIType {
	return ih.uiType
}

type viewerData struct {
	Title   string
	SpecURL string
}

func (ih *InfoHandler) templateData(r *http.Request) any {
	if ih.dataProvider != nil {
		if data := ih.dataProvider(r, ih.specURL); data != nil {
			return data
		}
	}
	return viewerData{Title: ih.title, SpecURL: ih.specURL}
}
