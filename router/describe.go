package router

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/docweaver/routes"
)

// DescribeRoutes builds an OpenAPI 3 description of the mounted routes so the
// validation middleware can reject requests for anything that is not served.
// Each operation answers with a generic default response.
func DescribeRoutes(title, version string, mounted []routes.Route) *openapi3.T {
	paths := openapi3.NewPaths()
	for _, route := range mounted {
		item := paths.Value(route.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			paths.Set(route.Path, item)
		}
		item.SetOperation(route.Method, &openapi3.Operation{
			Summary:   route.Method + " " + route.Path,
			Responses: openapi3.NewResponses(),
		})
		if route.Method == http.MethodGet && item.Head == nil {
			item.SetOperation(http.MethodHead, &openapi3.Operation{Responses: openapi3.NewResponses()})
		}
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   paths,
	}
}
