package catalog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// VendorDoc is the stored shape of a vendor.
type VendorDoc struct {
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Phone     string    `firestore:"phone"`
	Address   string    `firestore:"address"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Vendor is the public response shape.
type Vendor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// VendorService caches vendors under the "vendor" namespace. Vendors change
// rarely, so entries live a full day and coarse invalidation on the rare
// write is cheap.
type VendorService struct {
	*Policy[VendorDoc, Vendor]
}

// NewVendorService wires the vendor cache policy.
func NewVendorService(cache *cachestore.Adapter, docs DocumentStore[VendorDoc], logger zerolog.Logger) *VendorService {
	cfg := PolicyConfig{
		Namespace:     "vendor",
		TTL:           TTLAccount,
		DefaultSortBy: "name",
		SearchField:   "name",
	}
	return &VendorService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[VendorDoc]) Vendor {
			return Vendor{
				ID:        doc.ID,
				Name:      doc.Data.Name,
				Email:     doc.Data.Email,
				Phone:     doc.Data.Phone,
				Address:   doc.Data.Address,
				IsActive:  doc.Data.IsActive,
				CreatedAt: doc.Data.CreatedAt,
			}
		}, logger),
	}
}
