package orders_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-store-cache/pkg/cachekey"
	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
	"github.com/illmade-knight/go-store-cache/pkg/catalog"
	"github.com/illmade-knight/go-store-cache/pkg/dashboard"
	"github.com/illmade-knight/go-store-cache/pkg/orders"
)

// fakeOrderDocs is an in-memory order collection that counts reads.
type fakeOrderDocs struct {
	mu         sync.Mutex
	docs       []catalog.Document[orders.OrderDoc]
	queryCount atomic.Int32
}

func (s *fakeOrderDocs) FindByID(_ context.Context, id string) (catalog.Document[orders.OrderDoc], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount.Add(1)
	for _, doc := range s.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	var zero catalog.Document[orders.OrderDoc]
	return zero, fmt.Errorf("%w: %s", catalog.ErrDocumentNotFound, id)
}

func (s *fakeOrderDocs) Find(_ context.Context, q catalog.Query) ([]catalog.Document[orders.OrderDoc], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount.Add(1)
	return s.forVendor(q), nil
}

func (s *fakeOrderDocs) Count(_ context.Context, q catalog.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCount.Add(1)
	return int64(len(s.forVendor(q))), nil
}

func (s *fakeOrderDocs) forVendor(q catalog.Query) []catalog.Document[orders.OrderDoc] {
	var out []catalog.Document[orders.OrderDoc]
	for _, doc := range s.docs {
		include := true
		for _, f := range q.Filters {
			if f.Field == "vendorId" && doc.Data.VendorID != f.Value {
				include = false
			}
		}
		if include {
			out = append(out, doc)
		}
	}
	return out
}

func (s *fakeOrderDocs) Insert(_ context.Context, doc catalog.Document[orders.OrderDoc]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

func (s *fakeOrderDocs) Replace(_ context.Context, doc catalog.Document[orders.OrderDoc]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.docs {
		if existing.ID == doc.ID {
			s.docs[i] = doc
			return nil
		}
	}
	return fmt.Errorf("%w: %s", catalog.ErrDocumentNotFound, doc.ID)
}

func (s *fakeOrderDocs) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.docs {
		if existing.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

// recordingInvalidator captures dashboard sweeps fired from order writes.
type recordingInvalidator struct {
	mu      sync.Mutex
	vendors []string
}

func (r *recordingInvalidator) InvalidateVendor(_ context.Context, vendorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendors = append(r.vendors, vendorID)
}

func TestService_ReadThroughAndTargetedInvalidation(t *testing.T) {
	ctx := context.Background()
	docs := &fakeOrderDocs{}
	adapter := cachestore.NewAdapter(cachestore.NewMemoryStore(), zerolog.Nop())
	svc := orders.NewService(adapter, docs, nil, zerolog.Nop())

	v1Order, err := svc.Create(ctx, orders.OrderDoc{VendorID: "v1", Total: 40})
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, v1Order.Status)
	_, err = svc.Create(ctx, orders.OrderDoc{VendorID: "v2", Total: 90})
	require.NoError(t, err)

	// Warm both vendors' listings.
	v1Page, err := svc.GetForVendor(ctx, "v1", cachekey.ListParams{})
	require.NoError(t, err)
	require.Len(t, v1Page.Items, 1)
	_, err = svc.GetForVendor(ctx, "v2", cachekey.ListParams{})
	require.NoError(t, err)
	warm := docs.queryCount.Load()

	// A status change purges only that vendor's keys.
	_, err = svc.UpdateStatus(ctx, v1Order.ID, orders.StatusShipped)
	require.NoError(t, err)

	v1Page, err = svc.GetForVendor(ctx, "v1", cachekey.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, orders.StatusShipped, v1Page.Items[0].Status)

	_, err = svc.GetForVendor(ctx, "v2", cachekey.ListParams{})
	require.NoError(t, err)
	// One FindByID inside UpdateStatus plus one count+find pair for the v1
	// refill; the v2 read stayed cached.
	assert.Equal(t, warm+3, docs.queryCount.Load(), "the other vendor's listing must stay warm")
}

func TestService_WritesNotifyDashboards(t *testing.T) {
	ctx := context.Background()
	docs := &fakeOrderDocs{}
	recorder := &recordingInvalidator{}
	adapter := cachestore.NewAdapter(cachestore.NewMemoryStore(), zerolog.Nop())
	svc := orders.NewService(adapter, docs, recorder, zerolog.Nop())

	created, err := svc.Create(ctx, orders.OrderDoc{VendorID: "v1", Total: 40})
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1", "v1"}, recorder.vendors)
}

// staleAnalytics serves totals that track a mutable order book.
type staleAnalytics struct {
	mu    sync.Mutex
	total int64
}

func (f *staleAnalytics) setTotal(v int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total = v
}

func (f *staleAnalytics) SalesSummary(_ context.Context, vendorID string, window dashboard.Window) (dashboard.SalesSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dashboard.SalesSummary{VendorID: vendorID, Window: window, TotalSales: f.total}, nil
}

func (f *staleAnalytics) OrderStatusCounts(_ context.Context, vendorID string) (dashboard.OrderStatusCounts, error) {
	return dashboard.OrderStatusCounts{VendorID: vendorID}, nil
}

func (f *staleAnalytics) InventorySnapshot(_ context.Context, vendorID string, threshold int64) (dashboard.InventorySnapshot, error) {
	return dashboard.InventorySnapshot{VendorID: vendorID, Threshold: threshold}, nil
}

// TestCrossEntityInvalidation exercises the full fan-out: an order write
// must purge the vendor's cached sales summary so the next read reflects the
// new totals.
func TestCrossEntityInvalidation(t *testing.T) {
	ctx := context.Background()
	store := cachestore.NewMemoryStore()
	adapter := cachestore.NewAdapter(store, zerolog.Nop())

	analytics := &staleAnalytics{total: 100}
	dashboards := dashboard.NewService(adapter, analytics, zerolog.Nop())
	svc := orders.NewService(adapter, &fakeOrderDocs{}, dashboards, zerolog.Nop())

	before, err := dashboards.SalesSummary(ctx, "v1", dashboard.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, int64(100), before.TotalSales)

	// The new order changes the underlying totals and must evict the
	// cached summary on its way in.
	analytics.setTotal(140)
	_, err = svc.Create(ctx, orders.OrderDoc{
		VendorID:  "v1",
		Total:     40,
		Items:     []orders.Item{{ProductID: "p1", Quantity: 1, UnitPrice: 40}},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	after, err := dashboards.SalesSummary(ctx, "v1", dashboard.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, int64(140), after.TotalSales, "the pre-order total must not be served from cache")
}
