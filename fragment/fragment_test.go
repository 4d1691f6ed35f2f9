package fragment_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/drblury/docweaver/fragment"
)

func render(t *testing.T, f fragment.Fragment) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	err := f.WriteFragment(context.Background(), &buf)
	return buf.String(), err
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pets.json")
	content := `"/pets": {"get": {"operationId": "listPets"}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	t.Run("streams file verbatim", func(t *testing.T) {
		got, err := render(t, fragment.File(path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != content {
			t.Fatalf("unexpected output: got %q want %q", got, content)
		}
	})

	t.Run("picks up edits between renders", func(t *testing.T) {
		f := fragment.File(path)
		if err := os.WriteFile(path, []byte(`"/pets": {}`), 0o600); err != nil {
			t.Fatalf("rewrite fixture: %v", err)
		}
		got, err := render(t, f)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != `"/pets": {}` {
			t.Fatalf("expected updated content, got %q", got)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := render(t, fragment.File(filepath.Join(dir, "missing.json")))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("cancelled context fails before opening", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fragment.File(path).WriteFragment(ctx, io.Discard)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestFS(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/pets.def.json": {Data: []byte(`"Pet": {"type": "object"}`)},
	}

	got, err := render(t, fragment.FS(fsys, "docs/pets.def.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `"Pet": {"type": "object"}` {
		t.Fatalf("unexpected output: %q", got)
	}

	if _, err := render(t, fragment.FS(fsys, "docs/stores.def.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	if _, err := render(t, fragment.FS(nil, "docs/pets.def.json")); err == nil {
		t.Fatal("expected error for nil filesystem")
	}
}

func TestBytesCopiesInput(t *testing.T) {
	data := []byte(`"/a": {}`)
	f := fragment.Bytes(data)
	data[1] = 'X'

	got, err := render(t, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `"/a": {}` {
		t.Fatalf("expected fragment to own its bytes, got %q", got)
	}
}

func TestFuncNil(t *testing.T) {
	var f fragment.Func
	if _, err := render(t, f); !errors.Is(err, fragment.ErrNilFragment) {
		t.Fatalf("expected ErrNilFragment, got %v", err)
	}
}

func TestJSON(t *testing.T) {
	t.Run("encodes live value on each call", func(t *testing.T) {
		var (
			mu    sync.Mutex
			count int
		)
		f := fragment.JSON(func(context.Context) (any, error) {
			mu.Lock()
			defer mu.Unlock()
			count++
			return map[string]int{"renders": count}, nil
		})

		first, err := render(t, f)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := render(t, f)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != `{"renders":1}` || second != `{"renders":2}` {
			t.Fatalf("unexpected outputs: %q %q", first, second)
		}
	})

	t.Run("provider error is wrapped", func(t *testing.T) {
		sentinel := errors.New("state unavailable")
		_, err := render(t, fragment.JSON(func(context.Context) (any, error) {
			return nil, sentinel
		}))
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped sentinel, got %v", err)
		}
	})
}

func TestKeyed(t *testing.T) {
	value := fragment.String(`{"type":"string"}`)

	first, err := render(t, fragment.Keyed("Name", true, value))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != `"Name":{"type":"string"}` {
		t.Fatalf("unexpected first member: %q", first)
	}

	next, err := render(t, fragment.Keyed("Tag", false, value))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != `,"Tag":{"type":"string"}` {
		t.Fatalf("unexpected following member: %q", next)
	}
}
