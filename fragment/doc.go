// Package fragment defines the unit of work the documentation registries
// stitch into a single document: a Fragment writes raw bytes into the shared
// response stream. Fragments come from files (File, FS), fixed bytes (Bytes,
// String) or generation logic (Func, JSON).
//
// The registries never validate what a fragment writes. Each fragment is
// responsible for its own commas and quoting relative to its neighbours.
package fragment
