package catalog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// BrandDoc is the stored shape of a brand.
type BrandDoc struct {
	Name      string    `firestore:"name"`
	LogoURL   string    `firestore:"logoUrl"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Brand is the public response shape.
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logoUrl"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// BrandService caches brands under the "brands" namespace with coarse
// invalidation.
type BrandService struct {
	*Policy[BrandDoc, Brand]
}

// NewBrandService wires the brand cache policy.
func NewBrandService(cache *cachestore.Adapter, docs DocumentStore[BrandDoc], logger zerolog.Logger) *BrandService {
	cfg := PolicyConfig{
		Namespace:     "brands",
		TTL:           TTLTaxonomy,
		DefaultSortBy: "name",
		SearchField:   "name",
	}
	return &BrandService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[BrandDoc]) Brand {
			return Brand{
				ID:        doc.ID,
				Name:      doc.Data.Name,
				LogoURL:   doc.Data.LogoURL,
				IsActive:  doc.Data.IsActive,
				CreatedAt: doc.Data.CreatedAt,
			}
		}, logger),
	}
}
