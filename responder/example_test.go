package responder_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/drblury/docweaver/responder"
)

func ExampleResponder_RespondWithStream() {
	r := responder.NewResponder()

	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.RespondWithStream(w, req, "application/json", func(out io.Writer) error {
			if _, err := io.WriteString(out, `{"paths":`); err != nil {
				return err
			}
			_, err := io.WriteString(out, `{}}`)
			return err
		})
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-doc", nil))

	fmt.Println(rec.Code)
	fmt.Println(rec.Header().Get("Content-Type"))
	fmt.Println(rec.Body.String())

	// Output:
	// 200
	// application/json
	// {"paths":{}}
}

func ExampleWithStatusMetadata() {
	r := responder.NewResponder(
		responder.WithStatusMetadata(http.StatusNotFound, responder.StatusMetadata{
			Title:   "Unknown API",
			LogMsg:  "api doc not registered",
			TypeURI: "https://docs.example.com/problems/unknown-api",
		}),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api-doc/stores", nil)
	r.HandleNotFoundError(rec, req, errors.New("no document for stores"))

	var problem responder.ProblemDetails
	_ = json.Unmarshal(rec.Body.Bytes(), &problem)

	fmt.Println(rec.Code)
	fmt.Println(problem.Title)
	fmt.Println(strings.HasPrefix(rec.Header().Get("Content-Type"), "application/problem+json"))

	// Output:
	// 404
	// Unknown API
	// true
}
