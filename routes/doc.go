// Package routes provides the exact-match route table the documentation
// registries are mounted on. Handlers are keyed by method and path, so a
// handler installed once can be looked up again by the same key.
package routes
