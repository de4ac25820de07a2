package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachekey"
	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// TTLMetrics is the lifetime of every dashboard entry. Order traffic mutates
// these constantly, so the staleness window is kept tight.
const TTLMetrics = 300 * time.Second

// defaultStock is the low-stock threshold when the caller gives none.
const defaultStock = int64(10)

// Service reads dashboard metrics through the cache.
type Service struct {
	cache     *cachestore.Adapter
	analytics Analytics

	salesKeys     cachekey.Builder
	statusKeys    cachekey.Builder
	inventoryKeys cachekey.Builder

	logger zerolog.Logger
}

// NewService wires the dashboard metric caches.
func NewService(cache *cachestore.Adapter, analytics Analytics, logger zerolog.Logger) *Service {
	return &Service{
		cache:         cache,
		analytics:     analytics,
		salesKeys:     cachekey.NewBuilder("sales"),
		statusKeys:    cachekey.NewBuilder("orderstatus"),
		inventoryKeys: cachekey.NewBuilder("inventory"),
		logger:        logger.With().Str("component", "DashboardService").Logger(),
	}
}

// SalesSummary returns a vendor's sales summary for a window, read through
// the cache.
func (s *Service) SalesSummary(ctx context.Context, vendorID string, window Window) (SalesSummary, error) {
	window = window.Normalize()
	key := s.salesKeys.Scope(vendorID, "summary", string(window))
	if cached, ok := cachestore.Get[SalesSummary](ctx, s.cache, key); ok {
		return cached, nil
	}

	summary, err := s.analytics.SalesSummary(ctx, vendorID, window)
	if err != nil {
		return SalesSummary{}, err
	}
	cachestore.Set(ctx, s.cache, key, summary, TTLMetrics)
	return summary, nil
}

// OrderStatusCounts returns a vendor's order-status breakdown, read through
// the cache.
func (s *Service) OrderStatusCounts(ctx context.Context, vendorID string) (OrderStatusCounts, error) {
	key := s.statusKeys.Scope(vendorID, "counts")
	if cached, ok := cachestore.Get[OrderStatusCounts](ctx, s.cache, key); ok {
		return cached, nil
	}

	counts, err := s.analytics.OrderStatusCounts(ctx, vendorID)
	if err != nil {
		return OrderStatusCounts{}, err
	}
	cachestore.Set(ctx, s.cache, key, counts, TTLMetrics)
	return counts, nil
}

// InventorySnapshot returns a vendor's low-stock products, read through the
// cache. A threshold of zero uses the default.
func (s *Service) InventorySnapshot(ctx context.Context, vendorID string, threshold int64) (InventorySnapshot, error) {
	if threshold <= 0 {
		threshold = defaultStock
	}
	key := s.inventoryKeys.Scope(vendorID, "lowstock", strconv.FormatInt(threshold, 10))
	if cached, ok := cachestore.Get[InventorySnapshot](ctx, s.cache, key); ok {
		return cached, nil
	}

	snapshot, err := s.analytics.InventorySnapshot(ctx, vendorID, threshold)
	if err != nil {
		return InventorySnapshot{}, err
	}
	cachestore.Set(ctx, s.cache, key, snapshot, TTLMetrics)
	return snapshot, nil
}

// InvalidateVendor sweeps every dashboard namespace for one vendor, leaving
// other vendors' entries warm. It is the hook fired from order and product
// write paths.
func (s *Service) InvalidateVendor(ctx context.Context, vendorID string) {
	s.cache.Invalidate(ctx, s.salesKeys.ScopeWildcard(vendorID))
	s.cache.Invalidate(ctx, s.statusKeys.ScopeWildcard(vendorID))
	s.cache.Invalidate(ctx, s.inventoryKeys.ScopeWildcard(vendorID))
	s.logger.Debug().Str("vendor_id", vendorID).Msg("Dashboard caches invalidated for vendor.")
}

// InvalidateAllDashboardCaches is the bulk entry point for collaborators that
// learn of out-of-band mutations, e.g. an order status changed by a shipping
// webhook.
func (s *Service) InvalidateAllDashboardCaches(ctx context.Context, vendorID string) {
	s.InvalidateVendor(ctx, vendorID)
}

// InvalidateInventory sweeps only a vendor's inventory keys. Product stock
// changes fire this; they do not touch sales or status metrics.
func (s *Service) InvalidateInventory(ctx context.Context, vendorID string) {
	s.cache.Invalidate(ctx, s.inventoryKeys.ScopeWildcard(vendorID))
}
