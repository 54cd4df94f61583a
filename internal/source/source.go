package source

import (
	"context"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// ListOptions narrows a listing fetch. Limit is an upper bound only: backends
// may over-fetch and consumers re-filter, so nothing beyond the cap is
// guaranteed. Query is a free-text hint for backends that support it.
type ListOptions struct {
	Limit int
	Query string
}

// MaxListLimit caps how many raw records a single listing fetch may request.
const MaxListLimit = 100

// Source retrieves raw property records from one backend, shielding everything
// above it from backend-specific querying. Implementations return (nil, nil)
// from GetBySlug when no record matches; errors are reserved for transport
// and storage failures.
type Source interface {
	ListProperties(ctx context.Context, opts ListOptions) ([]models.RawProperty, error)
	GetBySlug(ctx context.Context, slug string) (models.RawProperty, error)
}

func (o ListOptions) effectiveLimit() int {
	if o.Limit <= 0 || o.Limit > MaxListLimit {
		return MaxListLimit
	}
	return o.Limit
}
