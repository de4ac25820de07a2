// Package cachekey builds deterministic cache keys for the storefront's
// entity namespaces. A key is positional — namespace, operation, then every
// parameter that affects the result — so identical parameters always produce
// the identical key and wildcard patterns align with namespace prefixes.
package cachekey

import (
	"strconv"
	"strings"
)

// Separator joins key segments. Parameter values never contain it because
// search terms and sort fields are sanitized by Normalize.
const Separator = ":"

// maxLimit caps page sizes so a caller cannot force unbounded queries.
const maxLimit = 100

// SortAsc and SortDesc are the only sort orders a key may carry.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams are the parameters that distinguish one paginated listing from
// another. All of them participate in key construction.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// Normalize clamps and defaults the parameters so that equivalent requests
// (page 0 and page 1, empty and missing sort order) collapse onto one key.
func (p ListParams) Normalize(defaultSortBy string) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	p.SortBy = sanitize(p.SortBy)
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	if p.SortOrder != SortDesc {
		p.SortOrder = SortAsc
	}
	// The search term keeps its case: the document store's range comparisons
	// are case sensitive, so the filter value and the key must carry the term
	// exactly as it will be queried.
	p.Search = sanitize(p.Search)
	return p
}

// sanitize keeps a caller-supplied value from breaking key positionality.
func sanitize(v string) string {
	return strings.ReplaceAll(strings.TrimSpace(v), Separator, " ")
}

// segments renders the parameters in their fixed positional order.
func (p ListParams) segments() []string {
	return []string{
		strconv.Itoa(p.Page),
		strconv.Itoa(p.Limit),
		p.Search,
		p.SortBy,
		p.SortOrder,
	}
}

// Builder constructs keys inside one entity namespace.
type Builder struct {
	namespace string
}

// NewBuilder creates a Builder for an entity namespace, e.g. "brands".
func NewBuilder(namespace string) Builder {
	return Builder{namespace: namespace}
}

// Namespace returns the builder's namespace prefix.
func (b Builder) Namespace() string {
	return b.namespace
}

// All is the key for the legacy unbounded listing.
func (b Builder) All() string {
	return b.namespace + Separator + "all"
}

// ID is the key for a single entity.
func (b Builder) ID(id string) string {
	return b.namespace + Separator + "id" + Separator + id
}

// Paginated is the key for one page of an unscoped listing.
func (b Builder) Paginated(p ListParams) string {
	parts := append([]string{b.namespace, "paginated"}, p.segments()...)
	return strings.Join(parts, Separator)
}

// ScopedPaginated is the key for one page of a listing scoped to another
// entity's id (a vendor's products, a brand's discounts).
func (b Builder) ScopedPaginated(scopeID string, p ListParams) string {
	parts := append([]string{b.namespace, "scope", scopeID, "paginated"}, p.segments()...)
	return strings.Join(parts, Separator)
}

// Scope is the key for a single value derived for one scope id, qualified by
// an operation name (e.g. a vendor's sales summary for a window).
func (b Builder) Scope(scopeID string, op ...string) string {
	parts := append([]string{b.namespace, "scope", scopeID}, op...)
	return strings.Join(parts, Separator)
}

// Wildcard matches every key in the namespace. Used for coarse invalidation.
func (b Builder) Wildcard() string {
	return b.namespace + Separator + "*"
}

// ScopeWildcard matches every key derived for one scope id. Used for
// targeted invalidation.
func (b Builder) ScopeWildcard(scopeID string) string {
	return b.namespace + Separator + "scope" + Separator + scopeID + Separator + "*"
}
