package apidoc

import (
	"fmt"
	"net/http"

	"github.com/drblury/docweaver/fragment"
)

// Builder registers V1 API docs on whatever registry is mounted at its base
// path. It keeps no reference to the registry: each call looks the base path
// up in the route table, so code that only has the table can still register.
//
// A call made before SetAPIDoc, or against a base path served by something
// other than a V1 registry, does nothing.
type Builder struct {
	opts     []Option
	settings *settings
}

// NewBuilder returns a V1 builder. WithFileDirectory and WithBasePath default
// to DefaultFileDirectory and DefaultBasePath. All options are passed on to
// the registry SetAPIDoc creates.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: opts, settings: buildSettings(opts)}
}

// SetAPIDoc creates the registry and mounts it at the base path. The returned
// handle can be used directly instead of going through the builder.
func (b *Builder) SetAPIDoc(table RouteTable) *Registry {
	return BindV1(table, b.opts...)
}

// Register adds api to the registry bound at the base path.
func (b *Builder) Register(table RouteTable, api, description string) {
	b.RegisterFile(table, api, description, "")
}

// RegisterFile adds api, served from path, to the registry bound at the base
// path.
func (b *Builder) RegisterFile(table RouteTable, api, description, path string) {
	reg, ok := lookup[*Registry](b.settings, table, "v1")
	if !ok {
		return
	}
	reg.RegisterFile(api, description, path)
}

// Builder20 is the V2 counterpart of Builder: it appends fragments to the V2
// registry found at its base path.
type Builder20 struct {
	opts     []Option
	settings *settings
}

// NewBuilder20 returns a V2 builder.
func NewBuilder20(opts ...Option) *Builder20 {
	return &Builder20{opts: opts, settings: buildSettings(opts)}
}

// SetAPIDoc creates the registry and mounts it at the base path.
func (b *Builder20) SetAPIDoc(table RouteTable) *Registry20 {
	return BindV2(table, b.opts...)
}

// Register appends an API fragment. The fragment can come from a file or be
// generated on every render.
func (b *Builder20) Register(table RouteTable, f fragment.Fragment) {
	reg, ok := lookup[*Registry20](b.settings, table, "v2")
	if !ok {
		return
	}
	reg.AddAPI(f)
}

// RegisterAPIFile appends the API fragment stored in {dir}/{api}.json.
func (b *Builder20) RegisterAPIFile(table RouteTable, api string) {
	b.Register(table, fragment.File(b.APIFilePath(api)))
}

// AddDefinition appends a definition fragment.
func (b *Builder20) AddDefinition(table RouteTable, f fragment.Fragment) {
	reg, ok := lookup[*Registry20](b.settings, table, "v2")
	if !ok {
		return
	}
	reg.AddDefinition(f)
}

// AddDefinitionsFile appends the definition fragment stored in
// {dir}{file}.def.json. No separator is inserted between the directory and
// file, so file usually starts with a slash.
func (b *Builder20) AddDefinitionsFile(table RouteTable, file string) {
	b.AddDefinition(table, fragment.File(b.DefinitionFilePath(file)))
}

// APIFilePath returns the conventional location of an API fragment file.
func (b *Builder20) APIFilePath(api string) string {
	return b.settings.fileDirectory + "/" + api + ".json"
}

// DefinitionFilePath returns the conventional location of a definitions file.
func (b *Builder20) DefinitionFilePath(file string) string {
	return b.settings.fileDirectory + file + ".def.json"
}

// lookup finds the registry mounted at the base path. The handler is type
// checked; anything else at that route is treated like an empty slot.
func lookup[T http.Handler](s *settings, table RouteTable, kind string) (T, bool) {
	var zero T
	if table == nil {
		s.logger.Debug("api doc registration skipped: no route table", "basePath", s.basePath)
		return zero, false
	}

	h := table.GetExactMatch(http.MethodGet, s.basePath)
	if h == nil {
		s.logger.Debug("api doc registration skipped: no registry bound",
			"basePath", s.basePath,
			"version", kind,
		)
		return zero, false
	}

	reg, ok := h.(T)
	if !ok {
		s.logger.Debug("api doc registration skipped: base path served by another handler",
			"basePath", s.basePath,
			"version", kind,
			"handler", fmt.Sprintf("%T", h),
		)
		return zero, false
	}
	return reg, true
}
