package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachekey"
	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// InvalidationHook is called after an entity write commits. Entities whose
// cached representation depends on another entity's state register a hook on
// that entity's write path; a hook must not fail the triggering write.
type InvalidationHook func(ctx context.Context, entityID string)

// PolicyConfig describes one entity's caching behavior.
type PolicyConfig struct {
	// Namespace is the key prefix, e.g. "brands".
	Namespace string
	// TTL is the lifetime of every entry in the namespace.
	TTL time.Duration
	// DefaultSortBy orders listings when the caller specifies no sort.
	DefaultSortBy string
	// SearchField, when set, is the document field prefix-matched against a
	// listing's search parameter.
	SearchField string
	// ScopeField, when set, is the document field that scoped listings
	// filter on (e.g. "vendorId").
	ScopeField string
}

// Policy implements the read-through and invalidation contract for one
// entity. D is the stored document shape, R the public response shape; the
// transform between them runs on every miss-fill so the cache only ever
// holds response shapes.
type Policy[D any, R any] struct {
	cfg       PolicyConfig
	cache     *cachestore.Adapter
	docs      DocumentStore[D]
	keys      cachekey.Builder
	transform func(doc Document[D]) R
	hooks     []InvalidationHook
	logger    zerolog.Logger
}

// NewPolicy wires an entity's cache policy.
func NewPolicy[D any, R any](
	cfg PolicyConfig,
	cache *cachestore.Adapter,
	docs DocumentStore[D],
	transform func(doc Document[D]) R,
	logger zerolog.Logger,
) *Policy[D, R] {
	return &Policy[D, R]{
		cfg:       cfg,
		cache:     cache,
		docs:      docs,
		keys:      cachekey.NewBuilder(cfg.Namespace),
		transform: transform,
		logger:    logger.With().Str("component", "CachePolicy").Str("namespace", cfg.Namespace).Logger(),
	}
}

// RegisterHook adds a cross-entity invalidation hook to the write path.
// Registration happens at wiring time, before any traffic.
func (p *Policy[D, R]) RegisterHook(hook InvalidationHook) {
	p.hooks = append(p.hooks, hook)
}

// Keys exposes the policy's key builder for callers that need to assert on
// or sweep the namespace.
func (p *Policy[D, R]) Keys() cachekey.Builder {
	return p.keys
}

// GetByID returns one entity, read through the cache.
func (p *Policy[D, R]) GetByID(ctx context.Context, id string) (R, error) {
	key := p.keys.ID(id)
	if cached, ok := cachestore.Get[R](ctx, p.cache, key); ok {
		return cached, nil
	}

	var zero R
	doc, err := p.docs.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	result := p.transform(doc)
	cachestore.Set(ctx, p.cache, key, result, p.cfg.TTL)
	return result, nil
}

// GetAll returns the unbounded legacy listing, read through the cache.
func (p *Policy[D, R]) GetAll(ctx context.Context) ([]R, error) {
	key := p.keys.All()
	if cached, ok := cachestore.Get[[]R](ctx, p.cache, key); ok {
		return cached, nil
	}

	docs, err := p.docs.Find(ctx, Query{Order: []Ordering{{Field: p.cfg.DefaultSortBy}}})
	if err != nil {
		return nil, err
	}
	results := p.transformAll(docs)
	cachestore.Set(ctx, p.cache, key, results, p.cfg.TTL)
	return results, nil
}

// GetPaginated returns one page of the unscoped listing, read through the
// cache.
func (p *Policy[D, R]) GetPaginated(ctx context.Context, params cachekey.ListParams) (Paginated[R], error) {
	params = params.Normalize(p.cfg.DefaultSortBy)
	return p.fetchPage(ctx, p.keys.Paginated(params), nil, params)
}

// GetScopedPaginated returns one page of the listing scoped to another
// entity's id, read through the cache.
func (p *Policy[D, R]) GetScopedPaginated(ctx context.Context, scopeID string, params cachekey.ListParams) (Paginated[R], error) {
	if p.cfg.ScopeField == "" {
		return Paginated[R]{}, fmt.Errorf("namespace %s has no scope field", p.cfg.Namespace)
	}
	params = params.Normalize(p.cfg.DefaultSortBy)
	scope := []Filter{{Field: p.cfg.ScopeField, Op: "==", Value: scopeID}}
	return p.fetchPage(ctx, p.keys.ScopedPaginated(scopeID, params), scope, params)
}

// fetchPage is the shared miss-fill for paginated listings: count, query,
// transform, assemble the envelope, store it.
func (p *Policy[D, R]) fetchPage(ctx context.Context, key string, scope []Filter, params cachekey.ListParams) (Paginated[R], error) {
	if cached, ok := cachestore.Get[Paginated[R]](ctx, p.cache, key); ok {
		return cached, nil
	}

	var zero Paginated[R]
	q := Query{
		Filters: scope,
		Order:   []Ordering{{Field: params.SortBy, Desc: params.SortOrder == cachekey.SortDesc}},
		Offset:  (params.Page - 1) * params.Limit,
		Limit:   params.Limit,
	}
	if params.Search != "" && p.cfg.SearchField != "" {
		// Prefix range on the search field; "" sorts after any valid
		// continuation of the prefix. Firestore rejects a range filter whose
		// field is not the first ordering, so the search field leads and the
		// requested sort becomes a tie-breaker.
		q.Filters = append(q.Filters,
			Filter{Field: p.cfg.SearchField, Op: ">=", Value: params.Search},
			Filter{Field: p.cfg.SearchField, Op: "<", Value: params.Search + ""},
		)
		if params.SortBy != p.cfg.SearchField {
			q.Order = append([]Ordering{{Field: p.cfg.SearchField}}, q.Order...)
		}
	}

	total, err := p.docs.Count(ctx, q)
	if err != nil {
		return zero, err
	}
	docs, err := p.docs.Find(ctx, q)
	if err != nil {
		return zero, err
	}

	result := Paginated[R]{
		Items:      p.transformAll(docs),
		Pagination: NewPagination(params.Page, params.Limit, total),
	}
	cachestore.Set(ctx, p.cache, key, result, p.cfg.TTL)
	return result, nil
}

func (p *Policy[D, R]) transformAll(docs []Document[D]) []R {
	results := make([]R, 0, len(docs))
	for _, doc := range docs {
		results = append(results, p.transform(doc))
	}
	return results
}

// Create inserts a new entity under a fresh id, then invalidates the
// namespace.
func (p *Policy[D, R]) Create(ctx context.Context, data D) (R, error) {
	var zero R
	doc := Document[D]{ID: uuid.NewString(), Data: data}
	if err := p.docs.Insert(ctx, doc); err != nil {
		return zero, err
	}
	p.invalidate(ctx, doc.ID)
	return p.transform(doc), nil
}

// Update replaces an entity in full, then invalidates the namespace.
func (p *Policy[D, R]) Update(ctx context.Context, id string, data D) (R, error) {
	var zero R
	doc := Document[D]{ID: id, Data: data}
	if err := p.docs.Replace(ctx, doc); err != nil {
		return zero, err
	}
	p.invalidate(ctx, id)
	return p.transform(doc), nil
}

// Delete removes an entity, then invalidates the namespace.
func (p *Policy[D, R]) Delete(ctx context.Context, id string) error {
	if err := p.docs.Remove(ctx, id); err != nil {
		return err
	}
	p.invalidate(ctx, id)
	return nil
}

// invalidate sweeps the entity's namespace and fires registered hooks. It
// runs after the mutation has committed and never fails the write: a missed
// sweep leaves entries to age out within one TTL.
func (p *Policy[D, R]) invalidate(ctx context.Context, entityID string) {
	p.cache.Invalidate(ctx, p.keys.Wildcard())
	for _, hook := range p.hooks {
		hook(ctx, entityID)
	}
}
