package mongostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/docweaver/fragment"
)

// DefaultCollection is the collection fragments are read from when none is
// configured.
const DefaultCollection = "api_fragments"

// Record is the stored shape of a fragment.
type Record struct {
	Name string `bson:"name"`
	Body string `bson:"body"`
}

// Finder is the subset of *mongo.Collection the store uses.
type Finder interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store hands out fragments whose bytes live in MongoDB. Every render queries
// the collection again, so updates to a record reach the next request without
// re-registering anything.
type Store struct {
	finder Finder
	logger *slog.Logger
}

// New returns a Store reading from finder, usually a *mongo.Collection.
func New(finder Finder, opts ...Option) *Store {
	s := &Store{finder: finder, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Fragment returns a fragment that writes the body of the record called name.
// A missing record fails the render with an error wrapping
// mongo.ErrNoDocuments.
func (s *Store) Fragment(name string) fragment.Fragment {
	return fragment.Func(func(ctx context.Context, w io.Writer) error {
		record, err := s.Load(ctx, name)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, record.Body)
		return err
	})
}

// Load reads a single record by name.
func (s *Store) Load(ctx context.Context, name string) (Record, error) {
	if s.finder == nil {
		return Record{}, errors.New("mongostore: collection is not configured")
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "body", Value: 1}})
	result := s.finder.FindOne(ctx, bson.D{{Key: "name", Value: name}}, opts)

	var record Record
	if err := result.Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.DebugContext(ctx, "fragment record not found", "name", name)
		}
		return Record{}, fmt.Errorf("mongostore: load fragment %q: %w", name, err)
	}
	return record, nil
}
