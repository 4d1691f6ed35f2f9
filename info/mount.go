package info

import (
	"errors"
	"fmt"
	"net/http"
)

// Mounter installs and looks up handlers by exact method and path.
// *routes.Table satisfies it.
type Mounter interface {
	Put(method, path string, h http.Handler)
	GetExactMatch(method, path string) http.Handler
}

// ErrPathInUse is returned by Mount when a path already serves a handler,
// e.g. a documentation registry bound at the same path.
var ErrPathInUse = errors.New("info: path already in use")

// Paths lists where Mount installs each endpoint. An empty path skips the
// endpoint.
type Paths struct {
	Status  string
	Healthz string
	Readyz  string
	Version string
	Viewer  string
}

// DefaultPaths returns the conventional endpoint layout.
func DefaultPaths() Paths {
	return Paths{
		Status:  "/status",
		Healthz: "/healthz",
		Readyz:  "/readyz",
		Version: "/version",
		Viewer:  "/docs",
	}
}

// Mount registers the handler's endpoints on table as GET routes. Nothing is
// mounted when any endpoint path is already held on table or used twice.
func (ih *InfoHandler) Mount(table Mounter, paths Paths) error {
	if table == nil {
		return errors.New("info: table is nil")
	}
	endpoints := []struct {
		path string
		fn   http.HandlerFunc
	}{
		{paths.Status, ih.GetStatus},
		{paths.Healthz, ih.GetHealthz},
		{paths.Readyz, ih.GetReadyz},
		{paths.Version, ih.GetVersion},
		{paths.Viewer, ih.GetViewer},
	}

	var errs []error
	seen := make(map[string]bool, len(endpoints))
	for _, e := range endpoints {
		if e.path == "" {
			continue
		}
		if seen[e.path] || table.GetExactMatch(http.MethodGet, e.path) != nil {
			errs = append(errs, fmt.Errorf("%w: GET %s", ErrPathInUse, e.path))
		}
		seen[e.path] = true
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	for _, e := range endpoints {
		if e.path != "" {
			table.Put(http.MethodGet, e.path, e.fn)
		}
	}
	return nil
}

// List returns the non-empty paths.
func (p Paths) List() []string {
	var list []string
	for _, path := range []string{p.Status, p.Healthz, p.Readyz, p.Version, p.Viewer} {
		if path != "" {
			list = append(list, path)
		}
	}
	return list
}
