// Package jsonutil wraps sonic for the JSON encoding needs of the docs
// registries and the HTTP responder. See Example for the basic round trip.
package jsonutil
