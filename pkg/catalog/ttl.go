package catalog

import "time"

// Cache lifetimes per entity class, chosen by write frequency against read
// frequency. Short lifetimes bound the staleness window for data that moves;
// long lifetimes keep rarely-written entities warm.
const (
	// TTLPublicListing covers time-window-sensitive public listings such as
	// active discounts.
	TTLPublicListing = 180 * time.Second
	// TTLVolatile covers frequently-mutated derived data: dashboard metrics
	// and order listings.
	TTLVolatile = 300 * time.Second
	// TTLTaxonomy covers catalog and taxonomy entities: attributes, brands,
	// categories, products, referrals.
	TTLTaxonomy = 600 * time.Second
	// TTLAccount covers low-churn entities: users and vendors.
	TTLAccount = 24 * time.Hour
)
