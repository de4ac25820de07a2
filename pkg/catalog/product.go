package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// Ref is an embedded reference to another entity, denormalized into the
// document so listings need no join.
type Ref struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name" json:"name"`
}

// ProductDoc is the stored shape of a product.
type ProductDoc struct {
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	VendorID    string    `firestore:"vendorId"`
	Brand       Ref       `firestore:"brand"`
	Category    Ref       `firestore:"category"`
	Price       int64     `firestore:"price"`
	Stock       int64     `firestore:"stock"`
	IsActive    bool      `firestore:"isActive"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// Product is the public response shape. Nested references are flattened to
// their display names.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	VendorID     string    `json:"vendorId"`
	BrandID      string    `json:"brandId"`
	BrandName    string    `json:"brandName"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Price        int64     `json:"price"`
	Stock        int64     `json:"stock"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProductService caches products under the "products" namespace with coarse
// invalidation. Vendor-scoped listings share the namespace so one sweep
// covers every parameterization.
type ProductService struct {
	*Policy[ProductDoc, Product]
}

// NewProductService wires the product cache policy.
func NewProductService(cache *cachestore.Adapter, docs DocumentStore[ProductDoc], logger zerolog.Logger) *ProductService {
	cfg := PolicyConfig{
		Namespace:     "products",
		TTL:           TTLTaxonomy,
		DefaultSortBy: "name",
		SearchField:   "name",
		ScopeField:    "vendorId",
	}
	return &ProductService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[ProductDoc]) Product {
			return Product{
				ID:           doc.ID,
				Name:         doc.Data.Name,
				Description:  doc.Data.Description,
				VendorID:     doc.Data.VendorID,
				BrandID:      doc.Data.Brand.ID,
				BrandName:    doc.Data.Brand.Name,
				CategoryID:   doc.Data.Category.ID,
				CategoryName: doc.Data.Category.Name,
				Price:        doc.Data.Price,
				Stock:        doc.Data.Stock,
				IsActive:     doc.Data.IsActive,
				CreatedAt:    doc.Data.CreatedAt,
			}
		}, logger),
	}
}

// UpdateStock replaces a product's stock level. It goes through the full
// Update path so the namespace sweep and the registered hooks (vendor
// inventory caches) both fire.
func (s *ProductService) UpdateStock(ctx context.Context, id string, stock int64) (Product, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	doc.Data.Stock = stock
	return s.Update(ctx, id, doc.Data)
}
