package mongostore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stubFinder struct {
	records    map[string]Record
	err        error
	lastFilter any
	calls      int
}

func (s *stubFinder) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	s.calls++
	s.lastFilter = filter
	if s.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, s.err, nil)
	}

	var name string
	if doc, ok := filter.(bson.D); ok && len(doc) > 0 {
		name, _ = doc[0].Value.(string)
	}
	record, ok := s.records[name]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(record, nil, nil)
}

func newQuietStore(finder Finder) *Store {
	return New(finder, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestStoreFragment(t *testing.T) {
	finder := &stubFinder{records: map[string]Record{
		"pets": {Name: "pets", Body: `"/pets": {"get": {}}`},
	}}
	store := newQuietStore(finder)

	t.Run("writes stored body", func(t *testing.T) {
		var buf bytes.Buffer
		if err := store.Fragment("pets").WriteFragment(context.Background(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != `"/pets": {"get": {}}` {
			t.Fatalf("unexpected body: %q", buf.String())
		}
		filter, ok := finder.lastFilter.(bson.D)
		if !ok || len(filter) != 1 || filter[0].Key != "name" || filter[0].Value != "pets" {
			t.Fatalf("unexpected filter: %#v", finder.lastFilter)
		}
	})

	t.Run("queries on every render", func(t *testing.T) {
		before := finder.calls
		frag := store.Fragment("pets")
		_ = frag.WriteFragment(context.Background(), io.Discard)
		finder.records["pets"] = Record{Name: "pets", Body: `"/pets": {}`}

		var buf bytes.Buffer
		if err := frag.WriteFragment(context.Background(), &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if finder.calls-before != 2 {
			t.Fatalf("expected 2 lookups, got %d", finder.calls-before)
		}
		if buf.String() != `"/pets": {}` {
			t.Fatalf("expected updated body, got %q", buf.String())
		}
	})

	t.Run("missing record", func(t *testing.T) {
		err := store.Fragment("stores").WriteFragment(context.Background(), io.Discard)
		if !errors.Is(err, mongo.ErrNoDocuments) {
			t.Fatalf("expected mongo.ErrNoDocuments, got %v", err)
		}
	})
}

func TestStoreLoadPropagatesDriverError(t *testing.T) {
	sentinel := errors.New("server selection timeout")
	store := newQuietStore(&stubFinder{err: sentinel})

	if _, err := store.Load(context.Background(), "pets"); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestStoreWithoutFinder(t *testing.T) {
	if _, err := newQuietStore(nil).Load(context.Background(), "pets"); err == nil {
		t.Fatal("expected error when collection is missing")
	}
}
