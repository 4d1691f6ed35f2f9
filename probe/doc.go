// Package probe builds readiness and liveness checks for a documentation
// server: rendering a registry end to end (NewDocumentProbe), hitting the
// served document over HTTP (NewHTTPProbe), pinging the MongoDB fragment
// store (NewMongoPingProbe) or wrapping any bespoke check (NewPingProbe).
package probe
