package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// DiscountDoc is the stored shape of a discount.
type DiscountDoc struct {
	Code      string    `firestore:"code"`
	VendorID  string    `firestore:"vendorId"`
	Percent   int       `firestore:"percent"`
	StartsAt  time.Time `firestore:"startsAt"`
	EndsAt    time.Time `firestore:"endsAt"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Discount is the public response shape.
type Discount struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	VendorID  string    `json:"vendorId"`
	Percent   int       `json:"percent"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiscountService caches discounts under the "discounts" namespace, scoped
// by vendor, with coarse invalidation.
type DiscountService struct {
	*Policy[DiscountDoc, Discount]
	now func() time.Time
}

// NewDiscountService wires the discount cache policy.
func NewDiscountService(cache *cachestore.Adapter, docs DocumentStore[DiscountDoc], logger zerolog.Logger) *DiscountService {
	cfg := PolicyConfig{
		Namespace:     "discounts",
		TTL:           TTLTaxonomy,
		DefaultSortBy: "code",
		SearchField:   "code",
		ScopeField:    "vendorId",
	}
	return &DiscountService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[DiscountDoc]) Discount {
			return Discount{
				ID:        doc.ID,
				Code:      doc.Data.Code,
				VendorID:  doc.Data.VendorID,
				Percent:   doc.Data.Percent,
				StartsAt:  doc.Data.StartsAt,
				EndsAt:    doc.Data.EndsAt,
				IsActive:  doc.Data.IsActive,
				CreatedAt: doc.Data.CreatedAt,
			}
		}, logger),
		now: time.Now,
	}
}

// GetActiveForVendor returns a vendor's currently-running discounts. The
// listing is time-window sensitive, so it gets the short public-listing
// lifetime rather than the namespace default; the entry still lives under the
// vendor's scope so both coarse and targeted sweeps reach it.
func (s *DiscountService) GetActiveForVendor(ctx context.Context, vendorID string) ([]Discount, error) {
	key := s.keys.Scope(vendorID, "active")
	if cached, ok := cachestore.Get[[]Discount](ctx, s.cache, key); ok {
		return cached, nil
	}

	docs, err := s.docs.Find(ctx, Query{
		Filters: []Filter{
			{Field: "vendorId", Op: "==", Value: vendorID},
			{Field: "isActive", Op: "==", Value: true},
			{Field: "endsAt", Op: ">", Value: s.now()},
		},
		Order: []Ordering{{Field: "endsAt"}},
	})
	if err != nil {
		return nil, err
	}

	active := make([]Discount, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.StartsAt.After(s.now()) {
			continue
		}
		active = append(active, s.transform(doc))
	}
	cachestore.Set(ctx, s.cache, key, active, TTLPublicListing)
	return active, nil
}
