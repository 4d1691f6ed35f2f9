package apidoc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/drblury/docweaver/jsonutil"
)

const (
	v1APIVersion     = "0.0.1"
	v1SwaggerVersion = "1.2"
)

// APIDoc is one entry of a V1 resource listing.
type APIDoc struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

type apiDocs struct {
	APIVersion     string   `json:"apiVersion"`
	SwaggerVersion string   `json:"swaggerVersion"`
	APIs           []APIDoc `json:"apis"`
}

// Registry serves a Swagger 1.2 resource listing. Every registered API also
// gets its own route under the base path serving the API's JSON file.
//
// Registration is meant for startup and is not synchronised with serving.
type Registry struct {
	table    RouteTable
	settings *settings
	docs     apiDocs
}

var _ Document = (*Registry)(nil)

// NewRegistry creates a V1 registry without mounting it.
func NewRegistry(table RouteTable, opts ...Option) *Registry {
	return &Registry{
		table:    table,
		settings: buildSettings(opts),
		docs: apiDocs{
			APIVersion:     v1APIVersion,
			SwaggerVersion: v1SwaggerVersion,
			APIs:           []APIDoc{},
		},
	}
}

// BindV1 creates a V1 registry and installs it as the GET handler for the base
// path.
func BindV1(table RouteTable, opts ...Option) *Registry {
	reg := NewRegistry(table, opts...)
	table.Put(http.MethodGet, reg.settings.basePath, reg)
	return reg
}

// Version reports V1.
func (r *Registry) Version() Version {
	return V1
}

// BasePath returns the route the listing is served on.
func (r *Registry) BasePath() string {
	return r.settings.basePath
}

// Register adds api to the listing and mounts GET {base}/{api}, serving
// {dir}/{api}.json as JSON.
func (r *Registry) Register(api, description string) {
	r.RegisterFile(api, description, "")
}

// RegisterFile is Register with an explicit file location. An empty path
// falls back to {dir}/{api}.json.
func (r *Registry) RegisterFile(api, description, path string) {
	if path == "" {
		path = filepath.Join(r.settings.fileDirectory, api+".json")
	}

	r.docs.APIs = append(r.docs.APIs, APIDoc{
		Path:        "/" + api,
		Description: description,
	})
	r.table.Put(http.MethodGet, r.settings.basePath+"/"+api, &jsonFileHandler{
		path:      path,
		responder: r.settings.responder,
	})

	r.settings.logger.Debug("api doc registered",
		"basePath", r.settings.basePath,
		"api", api,
		"file", path,
	)
}

// APIs returns a copy of the registered listing entries in registration order.
func (r *Registry) APIs() []APIDoc {
	out := make([]APIDoc, len(r.docs.APIs))
	copy(out, r.docs.APIs)
	return out
}

// Bytes serialises the listing in one shot.
func (r *Registry) Bytes() ([]byte, error) {
	data, err := jsonutil.Marshal(r.docs)
	if err != nil {
		return nil, fmt.Errorf("apidoc: encode listing: %w", err)
	}
	return data, nil
}

// Render writes the serialised listing to w. The origin is not used.
func (r *Registry) Render(_ context.Context, w io.Writer, _ Origin) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	data, err := r.Bytes()
	if err != nil {
		r.settings.responder.HandleInternalServerError(w, req, err, "failed to render api listing")
		return
	}
	r.settings.responder.RespondWithRawJSON(w, http.StatusOK, data)
}
