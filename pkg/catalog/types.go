// Package catalog implements read-through cache policies for the
// storefront's catalog entities. Each entity decides what to cache, under
// which key, for how long, and when to forget it; the database behind the
// DocumentStore stays the source of truth and every cache entry is
// disposable.
package catalog

// Pagination is the metadata attached to every paginated listing.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

// Paginated is the envelope cached and returned for paginated listings.
type Paginated[R any] struct {
	Items      []R        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination derives pagination metadata from a total count and the
// normalized page/limit pair.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}
