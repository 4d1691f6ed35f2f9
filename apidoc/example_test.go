package apidoc_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/drblury/docweaver/apidoc"
	"github.com/drblury/docweaver/fragment"
	"github.com/drblury/docweaver/routes"
)

func ExampleBuilder() {
	table := routes.NewTable()
	builder := apidoc.NewBuilder(apidoc.WithFileDirectory("docs"))

	builder.SetAPIDoc(table)
	builder.Register(table, "pets", "Pet operations")

	rec := httptest.NewRecorder()
	table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-doc", nil))
	fmt.Println(rec.Body.String())

	for _, route := range table.Routes() {
		fmt.Println(route.Method, route.Path)
	}

	// Output:
	// {"apiVersion":"0.0.1","swaggerVersion":"1.2","apis":[{"path":"/pets","description":"Pet operations"}]}
	// GET /api-doc
	// GET /api-doc/pets
}

func ExampleBuilder20() {
	table := routes.NewTable()
	builder := apidoc.NewBuilder20(apidoc.WithBasePath("/v2"), apidoc.WithHost("localhost:10000"))

	builder.SetAPIDoc(table)
	builder.Register(table, fragment.String(`    "/config/{id}": {"get": {"operationId": "findConfigId"}}`))
	builder.Register(table, fragment.Func(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `,
    "/routes": {"get": {"description": "%d routes mounted"}}`, len(table.Routes()))
		return err
	}))
	builder.AddDefinition(table, fragment.String(`    "Config": {"type": "object"}`))

	rec := httptest.NewRecorder()
	table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2", nil))
	fmt.Print(rec.Body.String())

	// Output:
	// {
	//   "swagger": "2.0",
	//   "host": "localhost:10000",
	//   "basePath": "/v2",
	//   "paths": {
	//     "/config/{id}": {"get": {"operationId": "findConfigId"}},
	//     "/routes": {"get": {"description": "1 routes mounted"}}
	//   },
	//   "definitions": {
	//     "Config": {"type": "object"}
	//   }
	// }
}

func ExampleBind() {
	table := routes.NewTable()

	doc, err := apidoc.Bind(table, apidoc.V2, apidoc.WithBasePath("/v2"))
	if err != nil {
		fmt.Println("bind:", err)
		return
	}
	if reg, ok := doc.(*apidoc.Registry20); ok {
		reg.AddDefinition(fragment.String(`    "Empty": {}`))
	}

	_ = doc.Render(context.Background(), os.Stdout, apidoc.Origin{Host: "example.test"})

	// Output:
	// {
	//   "swagger": "2.0",
	//   "host": "example.test",
	//   "basePath": "/v2",
	//   "paths": {
	//
	//   },
	//   "definitions": {
	//     "Empty": {}
	//   }
	// }
}
