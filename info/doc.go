// Package info serves the operational endpoints that sit next to the
// documentation registry: status, liveness and readiness probes, build
// metadata, and an HTML viewer for the rendered document.
//
// The viewer loads the document from the registry's base path. Supported
// viewers are:
//   - Stoplight Elements (default)
//   - Scalar
//   - SwaggerUI
//   - Redoc
//
// Mount installs every endpoint on a route table. See ExampleMount.
package info
