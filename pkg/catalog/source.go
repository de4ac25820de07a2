package catalog

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrDocumentNotFound is returned when a lookup by id matches no document.
var ErrDocumentNotFound = errors.New("document not found")

// Filter is a single field comparison, e.g. {"vendorId", "==", id}.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Ordering is one sort directive. Firestore requires the first ordering to
// name the range-filtered field when a query carries a range filter, so the
// slice's order is significant.
type Ordering struct {
	Field string
	Desc  bool
}

// Query carries filter/sort/pagination parameters into the document store.
type Query struct {
	Filters []Filter
	Order   []Ordering
	Offset  int
	Limit   int
}

// Document pairs a stored payload with its id, which lives outside the
// payload in the underlying store.
type Document[D any] struct {
	ID   string
	Data D
}

// DocumentStore is the document-database collaborator of the cache policies.
// The cache layer issues reads against it on every miss and writes through it
// on every mutation; its errors propagate to callers unchanged.
type DocumentStore[D any] interface {
	FindByID(ctx context.Context, id string) (Document[D], error)
	Find(ctx context.Context, q Query) ([]Document[D], error)
	Count(ctx context.Context, q Query) (int64, error)
	Insert(ctx context.Context, doc Document[D]) error
	Replace(ctx context.Context, doc Document[D]) error
	Remove(ctx context.Context, id string) error
}

// FirestoreCollection is a generic DocumentStore over one Firestore
// collection.
type FirestoreCollection[D any] struct {
	client         *firestore.Client
	collectionName string
	logger         zerolog.Logger
}

// NewFirestoreCollection creates a DocumentStore for a named collection.
func NewFirestoreCollection[D any](client *firestore.Client, collectionName string, logger zerolog.Logger) (*FirestoreCollection[D], error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}
	return &FirestoreCollection[D]{
		client:         client,
		collectionName: collectionName,
		logger:         logger.With().Str("component", "FirestoreCollection").Str("collection", collectionName).Logger(),
	}, nil
}

// FindByID retrieves a single document by its key.
func (s *FirestoreCollection[D]) FindByID(ctx context.Context, id string) (Document[D], error) {
	var zero Document[D]
	snap, err := s.client.Collection(s.collectionName).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return zero, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, s.collectionName, id)
		}
		return zero, fmt.Errorf("firestore get for %s: %w", id, err)
	}

	var data D
	if err := snap.DataTo(&data); err != nil {
		return zero, fmt.Errorf("firestore DataTo for %s: %w", id, err)
	}
	return Document[D]{ID: snap.Ref.ID, Data: data}, nil
}

// build translates a Query into a Firestore query.
func (s *FirestoreCollection[D]) build(q Query) firestore.Query {
	fq := s.client.Collection(s.collectionName).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	for _, o := range q.Order {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	if q.Offset > 0 {
		fq = fq.Offset(q.Offset)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

// Find executes a filtered, sorted, paginated query.
func (s *FirestoreCollection[D]) Find(ctx context.Context, q Query) ([]Document[D], error) {
	iter := s.build(q).Documents(ctx)
	defer iter.Stop()

	var docs []Document[D]
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query on %s: %w", s.collectionName, err)
		}
		var data D
		if err := snap.DataTo(&data); err != nil {
			return nil, fmt.Errorf("firestore DataTo for %s: %w", snap.Ref.ID, err)
		}
		docs = append(docs, Document[D]{ID: snap.Ref.ID, Data: data})
	}
}

// Count returns the number of documents matching the query's filters,
// ignoring its pagination. Only document keys are fetched.
func (s *FirestoreCollection[D]) Count(ctx context.Context, q Query) (int64, error) {
	q.Offset = 0
	q.Limit = 0
	q.Order = nil
	iter := s.build(q).Select().Documents(ctx)
	defer iter.Stop()

	var count int64
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("firestore count on %s: %w", s.collectionName, err)
		}
		count++
	}
}

// Insert creates a document under the given id.
func (s *FirestoreCollection[D]) Insert(ctx context.Context, doc Document[D]) error {
	if _, err := s.client.Collection(s.collectionName).Doc(doc.ID).Create(ctx, doc.Data); err != nil {
		return fmt.Errorf("firestore create for %s: %w", doc.ID, err)
	}
	s.logger.Debug().Str("id", doc.ID).Msg("Document created.")
	return nil
}

// Replace overwrites a document in full. Entries are never patched in place.
func (s *FirestoreCollection[D]) Replace(ctx context.Context, doc Document[D]) error {
	if _, err := s.client.Collection(s.collectionName).Doc(doc.ID).Set(ctx, doc.Data); err != nil {
		return fmt.Errorf("firestore set for %s: %w", doc.ID, err)
	}
	s.logger.Debug().Str("id", doc.ID).Msg("Document replaced.")
	return nil
}

// Remove deletes a document. Deleting an absent document is not an error.
func (s *FirestoreCollection[D]) Remove(ctx context.Context, id string) error {
	if _, err := s.client.Collection(s.collectionName).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete for %s: %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Document removed.")
	return nil
}
