package catalog

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// CategoryKind distinguishes the three category tiers. Each tier gets its
// own cache namespace so invalidating one never sweeps the others.
type CategoryKind string

const (
	CategoryParent    CategoryKind = "parent"
	CategoryPrimary   CategoryKind = "primary"
	CategorySecondary CategoryKind = "secondary"
)

// CategoryDoc is the stored shape of a category.
type CategoryDoc struct {
	Name     string `firestore:"name"`
	ParentID string `firestore:"parentId"`
	IsActive bool   `firestore:"isActive"`
}

// Category is the public response shape.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
	IsActive bool   `json:"isActive"`
}

// CategoryService caches one category tier, e.g. under
// "categories:primary". Listings scoped by parent category use the tier's
// "parentId" field.
type CategoryService struct {
	*Policy[CategoryDoc, Category]
	kind CategoryKind
}

// NewCategoryService wires the cache policy for one category tier.
func NewCategoryService(kind CategoryKind, cache *cachestore.Adapter, docs DocumentStore[CategoryDoc], logger zerolog.Logger) *CategoryService {
	cfg := PolicyConfig{
		Namespace:     fmt.Sprintf("categories:%s", kind),
		TTL:           TTLTaxonomy,
		DefaultSortBy: "name",
		SearchField:   "name",
		ScopeField:    "parentId",
	}
	return &CategoryService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[CategoryDoc]) Category {
			return Category{
				ID:       doc.ID,
				Name:     doc.Data.Name,
				ParentID: doc.Data.ParentID,
				IsActive: doc.Data.IsActive,
			}
		}, logger),
		kind: kind,
	}
}

// Kind returns the tier this service caches.
func (s *CategoryService) Kind() CategoryKind {
	return s.kind
}
