// Package orders caches order reads and fires the cross-entity invalidation
// that order writes demand: a vendor's cached dashboard metrics embed order
// totals, so every order mutation must sweep that vendor's dashboard
// namespaces as well as its own.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachekey"
	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
	"github.com/illmade-knight/go-store-cache/pkg/catalog"
)

// TTL is the lifetime of cached order reads. Orders mutate often, so the
// staleness window stays short.
const TTL = 300 * time.Second

// Order statuses. Transition legality is the storefront's concern, not the
// cache layer's; the layer only needs the strings for keys and filters.
const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Item is one line of an order.
type Item struct {
	ProductID string `firestore:"productId" json:"productId"`
	Name      string `firestore:"name" json:"name"`
	Quantity  int64  `firestore:"quantity" json:"quantity"`
	UnitPrice int64  `firestore:"unitPrice" json:"unitPrice"`
}

// OrderDoc is the stored shape of an order.
type OrderDoc struct {
	VendorID  string    `firestore:"vendorId"`
	UserID    string    `firestore:"userId"`
	Items     []Item    `firestore:"items"`
	Total     int64     `firestore:"total"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Order is the public response shape.
type Order struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendorId"`
	UserID    string    `json:"userId"`
	Items     []Item    `json:"items"`
	Total     int64     `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardInvalidator is the dashboard's registered hook on the order write
// path. It must never fail the triggering write.
type DashboardInvalidator interface {
	InvalidateVendor(ctx context.Context, vendorID string)
}

// Service caches order reads under the "orders" namespace with targeted
// per-vendor invalidation.
type Service struct {
	cache      *cachestore.Adapter
	docs       catalog.DocumentStore[OrderDoc]
	keys       cachekey.Builder
	dashboards DashboardInvalidator
	logger     zerolog.Logger
}

// NewService wires the order cache policy. The dashboard invalidator may be
// nil when no dashboard caching is deployed.
func NewService(cache *cachestore.Adapter, docs catalog.DocumentStore[OrderDoc], dashboards DashboardInvalidator, logger zerolog.Logger) *Service {
	return &Service{
		cache:      cache,
		docs:       docs,
		keys:       cachekey.NewBuilder("orders"),
		dashboards: dashboards,
		logger:     logger.With().Str("component", "OrderService").Logger(),
	}
}

func (s *Service) transform(doc catalog.Document[OrderDoc]) Order {
	return Order{
		ID:        doc.ID,
		VendorID:  doc.Data.VendorID,
		UserID:    doc.Data.UserID,
		Items:     doc.Data.Items,
		Total:     doc.Data.Total,
		Status:    doc.Data.Status,
		CreatedAt: doc.Data.CreatedAt,
	}
}

// GetByID returns one order, read through the cache. Single-order entries
// live under the vendor's scope so the targeted sweep reaches them.
func (s *Service) GetByID(ctx context.Context, vendorID, orderID string) (Order, error) {
	key := s.keys.Scope(vendorID, "id", orderID)
	if cached, ok := cachestore.Get[Order](ctx, s.cache, key); ok {
		return cached, nil
	}

	doc, err := s.docs.FindByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	order := s.transform(doc)
	cachestore.Set(ctx, s.cache, key, order, TTL)
	return order, nil
}

// GetForVendor returns one page of a vendor's orders, read through the cache.
func (s *Service) GetForVendor(ctx context.Context, vendorID string, params cachekey.ListParams) (catalog.Paginated[Order], error) {
	params = params.Normalize("createdAt")
	key := s.keys.ScopedPaginated(vendorID, params)
	if cached, ok := cachestore.Get[catalog.Paginated[Order]](ctx, s.cache, key); ok {
		return cached, nil
	}

	var zero catalog.Paginated[Order]
	q := catalog.Query{
		Filters: []catalog.Filter{{Field: "vendorId", Op: "==", Value: vendorID}},
		Order:   []catalog.Ordering{{Field: params.SortBy, Desc: params.SortOrder == cachekey.SortDesc}},
		Offset:  (params.Page - 1) * params.Limit,
		Limit:   params.Limit,
	}
	total, err := s.docs.Count(ctx, q)
	if err != nil {
		return zero, err
	}
	docs, err := s.docs.Find(ctx, q)
	if err != nil {
		return zero, err
	}

	items := make([]Order, 0, len(docs))
	for _, doc := range docs {
		items = append(items, s.transform(doc))
	}
	result := catalog.Paginated[Order]{
		Items:      items,
		Pagination: catalog.NewPagination(params.Page, params.Limit, total),
	}
	cachestore.Set(ctx, s.cache, key, result, TTL)
	return result, nil
}

// Create inserts a new order and invalidates the vendor's order and
// dashboard caches.
func (s *Service) Create(ctx context.Context, data OrderDoc) (Order, error) {
	if data.Status == "" {
		data.Status = StatusPending
	}
	doc := catalog.Document[OrderDoc]{ID: uuid.NewString(), Data: data}
	if err := s.docs.Insert(ctx, doc); err != nil {
		return Order{}, err
	}
	s.invalidate(ctx, data.VendorID)
	return s.transform(doc), nil
}

// UpdateStatus moves an order to a new status and invalidates the vendor's
// order and dashboard caches.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (Order, error) {
	doc, err := s.docs.FindByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	doc.Data.Status = status
	if err := s.docs.Replace(ctx, doc); err != nil {
		return Order{}, fmt.Errorf("update status for %s: %w", orderID, err)
	}
	s.invalidate(ctx, doc.Data.VendorID)
	return s.transform(doc), nil
}

// Cancel is the cancellation write path; cancelled orders leave the sales
// totals, so the dashboard sweep matters here as much as on create.
func (s *Service) Cancel(ctx context.Context, orderID string) (Order, error) {
	return s.UpdateStatus(ctx, orderID, StatusCancelled)
}

// invalidate sweeps the vendor's order keys, then fans out to the dashboard
// namespaces whose cached metrics embed this vendor's order state.
func (s *Service) invalidate(ctx context.Context, vendorID string) {
	s.cache.Invalidate(ctx, s.keys.ScopeWildcard(vendorID))
	if s.dashboards != nil {
		s.dashboards.InvalidateVendor(ctx, vendorID)
	}
}
