// Package docweaver serves API documentation that services assemble at
// startup by registering pieces of it. The module is split into small
// packages so a service can mount documentation on its own route table, or
// run the bundled docweaver binary in front of a directory of fragments.
//
// Two document shapes are supported. A version 1 registry serves a Swagger
// 1.2 resource listing and mounts one route per registered API that returns
// the API's JSON file. A version 2 registry streams a single Swagger 2.0
// document, writing a fixed envelope around the fragments registered for
// paths and definitions, in registration order, on every request.
//
// # Packages
//
//   - apidoc: the V1 and V2 registries, Bind, and the Builder facades that
//     find a bound registry on a route table.
//   - fragment: sources of document bytes (files, fs.FS entries, literals,
//     JSON values) written verbatim into a V2 document.
//   - routes: the exact-match route table registries are bound to.
//   - responder: JSON and problem-document responses, including streaming
//     with abort-on-failure semantics.
//   - mongostore: fragments whose bytes live in a MongoDB collection.
//   - probe and info: readiness checks and the status, version and viewer
//     endpoints that sit next to the document.
//   - router: the middleware chain in front of the route table.
//   - config: YAML and TOML configuration for cmd/docweaver.
//   - jsonutil: thin sonic wrappers.
//
// # Quick Start
//
//	table := routes.NewTable()
//	builder := apidoc.NewBuilder20(apidoc.WithFileDirectory("docs"))
//	builder.SetAPIDoc(table)
//	builder.RegisterAPIFile(table, "pets")
//	builder.AddDefinitionsFile(table, "/pets")
//
//	http.ListenAndServe(":10000", router.New(table))
//
// GET /api-doc then returns the stitched Swagger 2.0 document.
package docweaver
