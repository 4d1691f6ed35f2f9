package fragment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/drblury/docweaver/jsonutil"
)

// ErrNilFragment is returned when a nil generator is invoked.
var ErrNilFragment = errors.New("fragment: nil fragment")

// Fragment writes one piece of a documentation document into w. A Fragment is
// invoked once per render and may be invoked concurrently by independent
// renders, so implementations must not share mutable state between calls
// unless that state is read consistently per call.
type Fragment interface {
	WriteFragment(ctx context.Context, w io.Writer) error
}

// Func adapts generation logic to the Fragment interface. The function may
// produce different output on every call.
type Func func(ctx context.Context, w io.Writer) error

// WriteFragment calls f.
func (f Func) WriteFragment(ctx context.Context, w io.Writer) error {
	if f == nil {
		return ErrNilFragment
	}
	return f(ctx, w)
}

type fileFragment struct {
	path string
}

// File returns a Fragment that streams the named file verbatim. The file is
// opened on every render, so edits on disk show up without a restart. A
// missing or unreadable file fails the render.
func File(path string) Fragment {
	return fileFragment{path: path}
}

func (f fileFragment) WriteFragment(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("fragment: open %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("fragment: stream %s: %w", f.path, err)
	}
	return nil
}

type fsFragment struct {
	fsys fs.FS
	name string
}

// FS returns a Fragment that streams name from fsys, typically an embed.FS
// compiled into the binary.
func FS(fsys fs.FS, name string) Fragment {
	return fsFragment{fsys: fsys, name: name}
}

func (f fsFragment) WriteFragment(ctx context.Context, w io.Writer) error {
	if f.fsys == nil {
		return errors.New("fragment: filesystem is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := f.fsys.Open(f.name)
	if err != nil {
		return fmt.Errorf("fragment: open %s: %w", f.name, err)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("fragment: stream %s: %w", f.name, err)
	}
	return nil
}

// Bytes returns a Fragment that always writes a copy of b.
func Bytes(b []byte) Fragment {
	data := make([]byte, len(b))
	copy(data, b)
	return Func(func(_ context.Context, w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// String returns a Fragment that always writes s.
func String(s string) Fragment {
	return Func(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// ValueProvider supplies the value a JSON fragment encodes on each render.
type ValueProvider func(ctx context.Context) (any, error)

// JSON returns a Fragment that asks provider for a value on every render and
// writes it as compact JSON. Use it to expose live server state inside a
// document. Surrounding keys and separators are the caller's concern; see
// Keyed for the common "name": value shape.
func JSON(provider ValueProvider) Fragment {
	return Func(func(ctx context.Context, w io.Writer) error {
		if provider == nil {
			return ErrNilFragment
		}
		value, err := provider(ctx)
		if err != nil {
			return fmt.Errorf("fragment: provide value: %w", err)
		}
		data, err := jsonutil.Marshal(value)
		if err != nil {
			return fmt.Errorf("fragment: encode value: %w", err)
		}
		_, err = w.Write(data)
		return err
	})
}

// Keyed wraps a JSON value fragment as an object member: the quoted key, a
// colon, the value, and a leading comma unless first is true.
func Keyed(key string, first bool, value Fragment) Fragment {
	return Func(func(ctx context.Context, w io.Writer) error {
		if value == nil {
			return ErrNilFragment
		}
		quoted, err := jsonutil.Quote(key)
		if err != nil {
			return fmt.Errorf("fragment: encode key %q: %w", key, err)
		}
		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if _, err := w.Write(quoted); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ":"); err != nil {
			return err
		}
		return value.WriteFragment(ctx, w)
	})
}
