package feed

import (
	"context"

	"swipeNews/domain"
)

type PageRequest struct {
	Category domain.Category
	PageSize int
	Country  string
	Page     int
}

// ContentSource is the paginated upstream. Implementations must be safe to retry
// and safe for concurrent use, and must report upstream failures as an error
// rather than panicking. The assembler treats an error as an empty page.
type ContentSource interface {
	FetchPage(ctx context.Context, req PageRequest) ([]domain.Article, error)
}
