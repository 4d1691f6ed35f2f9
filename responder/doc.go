// Package responder renders JSON bodies, RFC 9457 problem documents and
// streamed responses for the documentation handlers, logging every problem
// with a ULID trace id.
package responder
