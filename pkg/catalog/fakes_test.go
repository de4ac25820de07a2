package catalog_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/illmade-knight/go-store-cache/pkg/catalog"
)

// fakeDocs is an in-memory DocumentStore double that counts every query it
// serves, so tests can prove whether a read hit the cache or fell through.
type fakeDocs[D any] struct {
	mu   sync.Mutex
	docs []catalog.Document[D]

	queryCount atomic.Int32

	// match decides whether a document satisfies one filter. Nil means all
	// filters match everything.
	match func(d D, f catalog.Filter) bool
	// less orders documents for a given sort field. Nil keeps insertion
	// order.
	less func(a, b D, orderBy string) bool
	// failWith, when set, is returned by every read.
	failWith error

	// lastQuery records the most recent Find, so tests can assert on the
	// query shape handed to the document store.
	lastQuery catalog.Query
}

func (s *fakeDocs[D]) queries() int32 { return s.queryCount.Load() }

func (s *fakeDocs[D]) lastFind() catalog.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

func (s *fakeDocs[D]) selectDocs(q catalog.Query) []catalog.Document[D] {
	var out []catalog.Document[D]
	for _, doc := range s.docs {
		include := true
		for _, f := range q.Filters {
			if s.match != nil && !s.match(doc.Data, f) {
				include = false
				break
			}
		}
		if include {
			out = append(out, doc)
		}
	}
	if s.less != nil {
		// Later orderings sort first so that Order[0] ends up primary.
		for i := len(q.Order) - 1; i >= 0; i-- {
			o := q.Order[i]
			sort.SliceStable(out, func(a, b int) bool {
				if o.Desc {
					return s.less(out[b].Data, out[a].Data, o.Field)
				}
				return s.less(out[a].Data, out[b].Data, o.Field)
			})
		}
	}
	return out
}

func (s *fakeDocs[D]) FindByID(_ context.Context, id string) (catalog.Document[D], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount.Add(1)
	if s.failWith != nil {
		var zero catalog.Document[D]
		return zero, s.failWith
	}
	for _, doc := range s.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	var zero catalog.Document[D]
	return zero, fmt.Errorf("%w: %s", catalog.ErrDocumentNotFound, id)
}

func (s *fakeDocs[D]) Find(_ context.Context, q catalog.Query) ([]catalog.Document[D], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount.Add(1)
	s.lastQuery = q
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := s.selectDocs(q)
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeDocs[D]) Count(_ context.Context, q catalog.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount.Add(1)
	if s.failWith != nil {
		return 0, s.failWith
	}
	q.Offset = 0
	q.Limit = 0
	return int64(len(s.selectDocs(q))), nil
}

func (s *fakeDocs[D]) Insert(_ context.Context, doc catalog.Document[D]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

func (s *fakeDocs[D]) Replace(_ context.Context, doc catalog.Document[D]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.docs {
		if existing.ID == doc.ID {
			s.docs[i] = doc
			return nil
		}
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *fakeDocs[D]) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.docs {
		if existing.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return nil
}
