package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
	"github.com/illmade-knight/go-store-cache/pkg/catalog"
)

func discountFixture() (*catalog.DiscountService, *fakeDocs[catalog.DiscountDoc], *cachestore.MemoryStore) {
	docs := &fakeDocs[catalog.DiscountDoc]{
		match: func(d catalog.DiscountDoc, f catalog.Filter) bool {
			switch f.Field {
			case "vendorId":
				return d.VendorID == f.Value
			case "isActive":
				return d.IsActive == f.Value
			case "endsAt":
				return d.EndsAt.After(f.Value.(time.Time))
			default:
				return true
			}
		},
		less: func(a, b catalog.DiscountDoc, _ string) bool { return a.EndsAt.Before(b.EndsAt) },
	}
	store := cachestore.NewMemoryStore()
	adapter := cachestore.NewAdapter(store, zerolog.Nop())
	return catalog.NewDiscountService(adapter, docs, zerolog.Nop()), docs, store
}

func TestDiscountService_ActiveListing(t *testing.T) {
	ctx := context.Background()
	svc, docs, _ := discountFixture()
	now := time.Now()

	running := catalog.DiscountDoc{
		Code: "SUMMER10", VendorID: "v1", Percent: 10, IsActive: true,
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour),
	}
	upcoming := catalog.DiscountDoc{
		Code: "AUTUMN20", VendorID: "v1", Percent: 20, IsActive: true,
		StartsAt: now.Add(time.Hour), EndsAt: now.Add(48 * time.Hour),
	}
	otherVendor := catalog.DiscountDoc{
		Code: "OTHER5", VendorID: "v2", Percent: 5, IsActive: true,
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour),
	}
	for _, d := range []catalog.DiscountDoc{running, upcoming, otherVendor} {
		_, err := svc.Create(ctx, d)
		require.NoError(t, err)
	}

	active, err := svc.GetActiveForVendor(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, active, 1, "only currently-running discounts for the vendor")
	assert.Equal(t, "SUMMER10", active[0].Code)

	// The listing is cached; a repeat read issues no queries.
	before := docs.queries()
	_, err = svc.GetActiveForVendor(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, before, docs.queries())

	// A discount write sweeps the namespace, reaching the active listing.
	_, err = svc.Create(ctx, catalog.DiscountDoc{
		Code: "FLASH30", VendorID: "v1", Percent: 30, IsActive: true,
		StartsAt: now.Add(-time.Minute), EndsAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	active, err = svc.GetActiveForVendor(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestDiscountService_ActiveListingShortTTL(t *testing.T) {
	ctx := context.Background()
	svc, docs, store := discountFixture()

	clock := time.Now()
	store.SetClock(func() time.Time { return clock })

	_, err := svc.Create(ctx, catalog.DiscountDoc{
		Code: "SUMMER10", VendorID: "v1", Percent: 10, IsActive: true,
		StartsAt: clock.Add(-time.Hour), EndsAt: clock.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.GetActiveForVendor(ctx, "v1")
	require.NoError(t, err)
	filled := docs.queries()

	// The time-window-sensitive listing expires on the short public TTL,
	// well before the namespace default.
	clock = clock.Add(catalog.TTLPublicListing + time.Second)
	_, err = svc.GetActiveForVendor(ctx, "v1")
	require.NoError(t, err)
	assert.Greater(t, docs.queries(), filled)
}
