package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BigQueryConfig holds configuration for the analytics warehouse.
type BigQueryConfig struct {
	ProjectID     string
	DatasetID     string
	OrdersTable   string
	ProductsTable string
	// CredentialsFile is optional; ADC is used when it is empty.
	CredentialsFile string
}

// NewBigQueryClient creates a BigQuery client suitable for production
// environments.
func NewBigQueryClient(ctx context.Context, cfg *BigQueryConfig, logger zerolog.Logger) (*bigquery.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	logger.Info().Str("project_id", cfg.ProjectID).Msg("BigQuery client created successfully.")
	return client, nil
}

// BigQuerySource implements Analytics with aggregation queries over the
// orders and products tables.
type BigQuerySource struct {
	client *bigquery.Client
	cfg    *BigQueryConfig
	logger zerolog.Logger
}

// NewBigQuerySource creates the warehouse-backed Analytics implementation.
func NewBigQuerySource(client *bigquery.Client, cfg *BigQueryConfig, logger zerolog.Logger) (*BigQuerySource, error) {
	if client == nil {
		return nil, errors.New("bigquery client cannot be nil")
	}
	return &BigQuerySource{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "BigQuerySource").Logger(),
	}, nil
}

func (s *BigQuerySource) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.cfg.ProjectID, s.cfg.DatasetID, name)
}

// SalesSummary aggregates a vendor's completed orders inside the window.
func (s *BigQuerySource) SalesSummary(ctx context.Context, vendorID string, window Window) (SalesSummary, error) {
	window = window.Normalize()
	q := s.client.Query(fmt.Sprintf(`
		SELECT COUNT(*) AS order_count, IFNULL(SUM(total), 0) AS total_sales
		FROM %s
		WHERE vendor_id = @vendor
		  AND status != 'cancelled'
		  AND created_at >= TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL @days DAY)`,
		s.table(s.cfg.OrdersTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "vendor", Value: vendorID},
		{Name: "days", Value: window.Days()},
	}

	var row struct {
		OrderCount int64 `bigquery:"order_count"`
		TotalSales int64 `bigquery:"total_sales"`
	}
	if err := s.readOne(ctx, q, &row); err != nil {
		return SalesSummary{}, fmt.Errorf("sales summary for %s: %w", vendorID, err)
	}

	summary := SalesSummary{
		VendorID:    vendorID,
		Window:      window,
		OrderCount:  row.OrderCount,
		TotalSales:  row.TotalSales,
		GeneratedAt: time.Now().UTC(),
	}
	if row.OrderCount > 0 {
		summary.AverageSale = row.TotalSales / row.OrderCount
	}
	return summary, nil
}

// OrderStatusCounts buckets a vendor's orders by status.
func (s *BigQuerySource) OrderStatusCounts(ctx context.Context, vendorID string) (OrderStatusCounts, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT status, COUNT(*) AS count
		FROM %s
		WHERE vendor_id = @vendor
		GROUP BY status
		ORDER BY status`,
		s.table(s.cfg.OrdersTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "vendor", Value: vendorID}}

	it, err := q.Read(ctx)
	if err != nil {
		return OrderStatusCounts{}, fmt.Errorf("order status counts for %s: %w", vendorID, err)
	}

	result := OrderStatusCounts{VendorID: vendorID}
	for {
		var row struct {
			Status string `bigquery:"status"`
			Count  int64  `bigquery:"count"`
		}
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			return result, nil
		}
		if err != nil {
			return OrderStatusCounts{}, fmt.Errorf("order status counts for %s: %w", vendorID, err)
		}
		result.Counts = append(result.Counts, StatusCount{Status: row.Status, Count: row.Count})
	}
}

// InventorySnapshot lists a vendor's products at or below the threshold.
func (s *BigQuerySource) InventorySnapshot(ctx context.Context, vendorID string, threshold int64) (InventorySnapshot, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT product_id, name, stock
		FROM %s
		WHERE vendor_id = @vendor AND stock <= @threshold
		ORDER BY stock ASC`,
		s.table(s.cfg.ProductsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "vendor", Value: vendorID},
		{Name: "threshold", Value: threshold},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return InventorySnapshot{}, fmt.Errorf("inventory snapshot for %s: %w", vendorID, err)
	}

	snapshot := InventorySnapshot{VendorID: vendorID, Threshold: threshold}
	for {
		var row struct {
			ProductID string `bigquery:"product_id"`
			Name      string `bigquery:"name"`
			Stock     int64  `bigquery:"stock"`
		}
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			return snapshot, nil
		}
		if err != nil {
			return InventorySnapshot{}, fmt.Errorf("inventory snapshot for %s: %w", vendorID, err)
		}
		snapshot.Items = append(snapshot.Items, InventoryItem(row))
	}
}

// readOne executes a query expected to return exactly one row.
func (s *BigQuerySource) readOne(ctx context.Context, q *bigquery.Query, dst any) error {
	it, err := q.Read(ctx)
	if err != nil {
		return err
	}
	if err := it.Next(dst); err != nil {
		return err
	}
	return nil
}
