package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

// api mirrors encoding/json behaviour (HTML escaping, sorted map keys) so the
// documents served by this module stay byte-stable across releases.
var api = sonic.ConfigStd

// literal is ConfigStd without HTML escaping, for strings spliced verbatim
// into hand-written JSON.
var literal = sonic.Config{
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
}.Froze()

// Marshal encodes v as compact JSON.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v as indented JSON using the provided prefix and indent.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Encode streams v as JSON followed by a newline to w.
func Encode(w io.Writer, v any) error {
	return api.NewEncoder(w).Encode(v)
}

// Decode reads the next JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return api.NewDecoder(r).Decode(v)
}

// Quote returns s as a JSON string literal, including the surrounding quotes.
// Only quotes, backslashes and control characters are escaped; &, < and >
// are kept as is.
func Quote(s string) ([]byte, error) {
	return literal.Marshal(s)
}

// Valid reports whether data is a single well-formed JSON value.
func Valid(data []byte) bool {
	return api.Valid(data)
}
