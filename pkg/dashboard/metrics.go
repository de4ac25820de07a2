// Package dashboard caches per-vendor dashboard metrics derived from the
// analytics warehouse. Unlike the catalog namespaces, invalidation here is
// targeted: order traffic is frequent and vendor-scoped, so sweeping only the
// affected vendor's keys keeps every other vendor's dashboard warm.
package dashboard

import (
	"context"
	"time"
)

// Window identifies the reporting period of a sales summary.
type Window string

const (
	WindowWeek    Window = "7d"
	WindowMonth   Window = "30d"
	WindowQuarter Window = "90d"
)

// Normalize collapses unknown windows onto the month view so equivalent
// requests share one cache key.
func (w Window) Normalize() Window {
	switch w {
	case WindowWeek, WindowMonth, WindowQuarter:
		return w
	default:
		return WindowMonth
	}
}

// Days returns the window length in days.
func (w Window) Days() int {
	switch w.Normalize() {
	case WindowWeek:
		return 7
	case WindowQuarter:
		return 90
	default:
		return 30
	}
}

// SalesSummary is a vendor's aggregated sales for one window.
type SalesSummary struct {
	VendorID    string    `json:"vendorId"`
	Window      Window    `json:"window"`
	OrderCount  int64     `json:"orderCount"`
	TotalSales  int64     `json:"totalSales"`
	AverageSale int64     `json:"averageSale"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// StatusCount is one order-status bucket.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// OrderStatusCounts is a vendor's order book broken down by status.
type OrderStatusCounts struct {
	VendorID string        `json:"vendorId"`
	Counts   []StatusCount `json:"counts"`
}

// InventoryItem is one low-stock product in an inventory snapshot.
type InventoryItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
}

// InventorySnapshot lists a vendor's products at or below the low-stock
// threshold.
type InventorySnapshot struct {
	VendorID  string          `json:"vendorId"`
	Threshold int64           `json:"threshold"`
	Items     []InventoryItem `json:"items"`
}

// Analytics is the warehouse collaborator behind the dashboard metrics. Its
// errors propagate to callers unchanged; the cache layer neither retries nor
// hides them.
type Analytics interface {
	SalesSummary(ctx context.Context, vendorID string, window Window) (SalesSummary, error)
	OrderStatusCounts(ctx context.Context, vendorID string) (OrderStatusCounts, error)
	InventorySnapshot(ctx context.Context, vendorID string, threshold int64) (InventorySnapshot, error)
}
