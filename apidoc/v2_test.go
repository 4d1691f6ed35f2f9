package apidoc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/getkin/kin-openapi/openapi2"

	"github.com/drblury/docweaver/fragment"
	"github.com/drblury/docweaver/routes"
)

func renderString(t *testing.T, d Document, origin Origin) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	err := d.Render(context.Background(), &buf, origin)
	return buf.String(), err
}

func TestPreamble(t *testing.T) {
	got, err := Preamble("localhost:10000", "/v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"swagger\": \"2.0\",\n  \"host\": \"localhost:10000\",\n  \"basePath\": \"/v2\",\n  \"paths\": {\n"
	if string(got) != want {
		t.Fatalf("unexpected preamble:\n got %q\nwant %q", got, want)
	}

	escaped, err := Preamble(`evil"host`, "/v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(escaped), `"host": "evil\"host"`) {
		t.Fatalf("expected host to be escaped, got %q", escaped)
	}

	verbatim, err := Preamble("docs.example.com", "/a&b/<v2>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(verbatim), `"basePath": "/a&b/<v2>",`) {
		t.Fatalf("expected base path to be written without HTML escaping, got %q", verbatim)
	}
}

func TestEnvelopeAloneIsValidJSON(t *testing.T) {
	reg := NewRegistry20(quietOptions()...)

	out, err := renderString(t, reg, Origin{Host: "localhost:10000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("expected empty document to be valid JSON, got:\n%s", out)
	}
}

func TestRegistry20RenderIsByteExactConcatenation(t *testing.T) {
	apis := []string{
		`"/pets": {"get": {"operationId": "listPets"}}`,
		`, "/stores": {"get": {"operationId": "listStores"}}`,
		``,
	}
	definitions := []string{
		`"Pet": {"type": "object"}`,
		`, "Store": {"type": "object"}`,
	}

	reg := NewRegistry20(quietOptions(WithBasePath("/v2"))...)
	for _, api := range apis {
		reg.AddAPI(fragment.String(api))
	}
	for _, def := range definitions {
		reg.AddDefinition(fragment.String(def))
	}

	got, err := renderString(t, reg, Origin{Host: "localhost:10000", Protocol: "http"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	preamble, _ := Preamble("localhost:10000", "/v2")
	want := string(preamble) + strings.Join(apis, "") + PathsDefinitionsSeparator +
		strings.Join(definitions, "") + DocumentClosing
	if got != want {
		t.Fatalf("unexpected document:\n got %q\nwant %q", got, want)
	}

	var doc openapi2.T
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("rendered document is not a swagger 2.0 document: %v\n%s", err, got)
	}
	if doc.Swagger != "2.0" || doc.Host != "localhost:10000" || doc.BasePath != "/v2" {
		t.Fatalf("unexpected envelope fields: swagger=%q host=%q basePath=%q", doc.Swagger, doc.Host, doc.BasePath)
	}
	if item := doc.Paths["/pets"]; item == nil || item.Get == nil || item.Get.OperationID != "listPets" {
		t.Fatalf("expected /pets GET listPets, got %+v", doc.Paths["/pets"])
	}
	if len(doc.Definitions) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(doc.Definitions))
	}
}

func TestRegistry20ReplaysFragmentsOnEveryRender(t *testing.T) {
	var calls atomic.Int64
	reg := NewRegistry20(quietOptions()...)
	reg.AddAPI(fragment.Func(func(_ context.Context, w io.Writer) error {
		n := calls.Add(1)
		_, err := fmt.Fprintf(w, `"/render/%d": {}`, n)
		return err
	}))

	first, err := renderString(t, reg, Origin{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := renderString(t, reg, Origin{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(first, `"/render/1"`) || !strings.Contains(second, `"/render/2"`) {
		t.Fatalf("expected each render to invoke the fragment again:\n%s\n%s", first, second)
	}
}

func TestRegistry20HostSelection(t *testing.T) {
	t.Run("request host", func(t *testing.T) {
		reg := NewRegistry20(quietOptions()...)
		out, _ := renderString(t, reg, Origin{Host: "docs.internal:8080"})
		if !strings.Contains(out, `"host": "docs.internal:8080"`) {
			t.Fatalf("expected request host, got:\n%s", out)
		}
	})

	t.Run("configured host wins", func(t *testing.T) {
		reg := NewRegistry20(quietOptions(WithHost("api.example.com"))...)
		out, _ := renderString(t, reg, Origin{Host: "docs.internal:8080"})
		if !strings.Contains(out, `"host": "api.example.com"`) {
			t.Fatalf("expected configured host, got:\n%s", out)
		}
	})
}

func TestRegistry20Placeholders(t *testing.T) {
	api := `"/pets": {"get": {"externalDocs": {"url": "{{Protocol}}://{{Host}}/pets"}}}`

	t.Run("disabled by default", func(t *testing.T) {
		reg := NewRegistry20(quietOptions()...)
		reg.AddAPI(fragment.String(api))
		out, _ := renderString(t, reg, Origin{Host: "h:1", Protocol: "https"})
		if !strings.Contains(out, "{{Protocol}}://{{Host}}") {
			t.Fatalf("expected placeholders untouched, got:\n%s", out)
		}
	})

	t.Run("expanded when enabled", func(t *testing.T) {
		reg := NewRegistry20(quietOptions(WithPlaceholders())...)
		reg.AddAPI(fragment.String(api))
		out, _ := renderString(t, reg, Origin{Host: "h:1", Protocol: "https"})
		if !strings.Contains(out, `"url": "https://h:1/pets"`) {
			t.Fatalf("expected placeholders expanded, got:\n%s", out)
		}
	})

	t.Run("behind a proxy chain", func(t *testing.T) {
		reg := NewRegistry20(quietOptions(WithPlaceholders())...)
		reg.AddAPI(fragment.String(api))

		req := httptest.NewRequest(http.MethodGet, "http://docs.example.com/api-doc", nil)
		req.Header.Set("X-Forwarded-Proto", "https, http")
		rr := httptest.NewRecorder()
		reg.ServeHTTP(rr, req)

		if !strings.Contains(rr.Body.String(), `"url": "https://docs.example.com/pets"`) {
			t.Fatalf("expected the client scheme in expanded URLs, got:\n%s", rr.Body.String())
		}
	})
}

func TestRegistry20FragmentFailure(t *testing.T) {
	reg := NewRegistry20(quietOptions()...)
	reg.AddAPI(fragment.String(`"/pets": {}`))
	reg.AddAPI(fragment.File(filepath.Join(t.TempDir(), "missing.json")))
	reg.AddDefinition(fragment.String(`"Pet": {}`))

	out, err := renderString(t, reg, Origin{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}
	if !strings.Contains(err.Error(), "api fragment 2") {
		t.Fatalf("expected error to name the failing fragment, got %v", err)
	}
	if !strings.HasSuffix(out, `"/pets": {}`) {
		t.Fatalf("expected render to stop after the last good fragment, got %q", out)
	}
	if strings.Contains(out, "definitions") {
		t.Fatalf("expected no output past the failure, got %q", out)
	}
}

func TestRegistry20IgnoresNilFragments(t *testing.T) {
	reg := NewRegistry20(quietOptions()...)
	reg.AddAPI(nil)
	reg.AddDefinition(nil)

	if apis, defs := reg.FragmentCounts(); apis != 0 || defs != 0 {
		t.Fatalf("expected nil fragments to be ignored, got %d/%d", apis, defs)
	}
}

// chunkedFragment writes its content in several pieces and yields between
// them, so interleaving across renders would show up in the output.
func chunkedFragment(counter *atomic.Int64, key string) fragment.Fragment {
	return fragment.Func(func(_ context.Context, w io.Writer) error {
		n := counter.Add(1)
		pieces := []string{
			fmt.Sprintf(`"%s": {`, key),
			fmt.Sprintf(`"x-render": %d, `, n),
			fmt.Sprintf(`"x-echo": %d}`, n),
		}
		for _, piece := range pieces {
			if _, err := io.WriteString(w, piece); err != nil {
				return err
			}
			runtime.Gosched()
		}
		return nil
	})
}

func TestRegistry20ConcurrentRendersAreIndependent(t *testing.T) {
	var counter atomic.Int64
	reg := NewRegistry20(quietOptions(WithBasePath("/v2"))...)
	reg.AddAPI(chunkedFragment(&counter, "/a"))
	reg.AddDefinition(chunkedFragment(&counter, "A"))

	const renders = 32
	outputs := make([]string, renders)
	errs := make([]error, renders)

	var wg sync.WaitGroup
	for i := range renders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			errs[i] = reg.Render(context.Background(), &buf, Origin{Host: fmt.Sprintf("host-%d", i)})
			outputs[i] = buf.String()
		}()
	}
	wg.Wait()

	type member struct {
		Render int `json:"x-render"`
		Echo   int `json:"x-echo"`
	}
	for i, out := range outputs {
		if errs[i] != nil {
			t.Fatalf("render %d failed: %v", i, errs[i])
		}
		var doc struct {
			Host        string            `json:"host"`
			Paths       map[string]member `json:"paths"`
			Definitions map[string]member `json:"definitions"`
		}
		if err := json.Unmarshal([]byte(out), &doc); err != nil {
			t.Fatalf("render %d is not valid JSON: %v\n%s", i, err, out)
		}
		if doc.Host != fmt.Sprintf("host-%d", i) {
			t.Fatalf("render %d leaked host %q", i, doc.Host)
		}
		if m := doc.Paths["/a"]; m.Render == 0 || m.Render != m.Echo {
			t.Fatalf("render %d has torn api fragment: %+v", i, m)
		}
		if m := doc.Definitions["A"]; m.Render == 0 || m.Render != m.Echo {
			t.Fatalf("render %d has torn definition fragment: %+v", i, m)
		}
	}
}

func TestRegistry20ServeHTTP(t *testing.T) {
	table := routes.NewTable()
	reg := BindV2(table, quietOptions(WithBasePath("/v2"))...)
	reg.AddAPI(fragment.String(`"/pets": {}`))

	server := httptest.NewServer(table)
	defer server.Close()

	resp, err := http.Get(server.URL + "/v2")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	host := strings.TrimPrefix(server.URL, "http://")
	preamble, _ := Preamble(host, "/v2")
	want := string(preamble) + `"/pets": {}` + PathsDefinitionsSeparator + DocumentClosing
	if string(body) != want {
		t.Fatalf("unexpected body:\n got %q\nwant %q", body, want)
	}
}

func TestRegistry20ServeHTTPFailingFragmentFailsResponse(t *testing.T) {
	table := routes.NewTable()
	reg := BindV2(table, quietOptions()...)
	reg.AddAPI(fragment.String(`"/pets": {}`))
	reg.AddDefinition(fragment.File(filepath.Join(t.TempDir(), "gone.def.json")))

	server := httptest.NewServer(table)
	defer server.Close()

	resp, err := http.Get(server.URL + DefaultBasePath)
	if err == nil {
		_, err = io.ReadAll(resp.Body)
		resp.Body.Close()
	}
	if err == nil {
		t.Fatal("expected the client to observe a failed response")
	}
}
