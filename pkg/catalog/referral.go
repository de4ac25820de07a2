package catalog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// ReferralDoc is the stored shape of a referral code.
type ReferralDoc struct {
	Code         string    `firestore:"code"`
	UserID       string    `firestore:"userId"`
	RewardPoints int       `firestore:"rewardPoints"`
	UsedCount    int       `firestore:"usedCount"`
	IsActive     bool      `firestore:"isActive"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

// Referral is the public response shape.
type Referral struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	UserID       string    `json:"userId"`
	RewardPoints int       `json:"rewardPoints"`
	UsedCount    int       `json:"usedCount"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReferralService caches referrals under the "referrals" namespace, scoped
// by owning user, with coarse invalidation.
type ReferralService struct {
	*Policy[ReferralDoc, Referral]
}

// NewReferralService wires the referral cache policy.
func NewReferralService(cache *cachestore.Adapter, docs DocumentStore[ReferralDoc], logger zerolog.Logger) *ReferralService {
	cfg := PolicyConfig{
		Namespace:     "referrals",
		TTL:           TTLTaxonomy,
		DefaultSortBy: "code",
		SearchField:   "code",
		ScopeField:    "userId",
	}
	return &ReferralService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[ReferralDoc]) Referral {
			return Referral{
				ID:           doc.ID,
				Code:         doc.Data.Code,
				UserID:       doc.Data.UserID,
				RewardPoints: doc.Data.RewardPoints,
				UsedCount:    doc.Data.UsedCount,
				IsActive:     doc.Data.IsActive,
				CreatedAt:    doc.Data.CreatedAt,
			}
		}, logger),
	}
}
