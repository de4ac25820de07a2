package catalog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// AttributeDoc is the stored shape of a product attribute.
type AttributeDoc struct {
	Name      string    `firestore:"name"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Attribute is the public response shape.
type Attribute struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttributeService caches product attributes under the "attributes"
// namespace with coarse invalidation.
type AttributeService struct {
	*Policy[AttributeDoc, Attribute]
}

// NewAttributeService wires the attribute cache policy.
func NewAttributeService(cache *cachestore.Adapter, docs DocumentStore[AttributeDoc], logger zerolog.Logger) *AttributeService {
	cfg := PolicyConfig{
		Namespace:     "attributes",
		TTL:           TTLTaxonomy,
		DefaultSortBy: "name",
		SearchField:   "name",
	}
	return &AttributeService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[AttributeDoc]) Attribute {
			return Attribute{
				ID:        doc.ID,
				Name:      doc.Data.Name,
				IsActive:  doc.Data.IsActive,
				CreatedAt: doc.Data.CreatedAt,
			}
		}, logger),
	}
}
