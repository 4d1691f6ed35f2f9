package responder

import "github.com/oklog/ulid/v2"

// newTraceID returns a lexically sortable id shared by a problem document and
// its log record. ulid.Make is safe for concurrent use.
func newTraceID() string {
	return ulid.Make().String()
}
