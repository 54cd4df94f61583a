package listing

import (
	"sort"
	"strings"

	"github.com/alfgow/inmobiliaria-server/internal/models"
	"github.com/alfgow/inmobiliaria-server/internal/normalize"
)

// SortOption selects how a filtered listing is ordered.
type SortOption string

const (
	// SortRelevance preserves the upstream order (featured first, newest next).
	SortRelevance SortOption = "relevance"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
)

// Filters is the complete filter state of a listing page. Fields compose
// conjunctively; the zero value matches everything in upstream order.
type Filters struct {
	Operation string
	Status    string
	Query     string
	Sort      SortOption
}

// Apply derives the filtered, sorted view of the given properties. It is a
// pure function of its inputs: the source slice is never reordered or
// mutated, and the same state always yields the same result.
func (f Filters) Apply(properties []models.Property) []models.Property {
	operation := normalize.Fold(f.Operation)
	status := normalize.Fold(f.Status)
	query := normalize.Fold(f.Query)

	result := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if operation != "" && normalize.Fold(deref(p.Operation)) != operation {
			continue
		}
		if status != "" && normalize.Fold(statusName(&p)) != status {
			continue
		}
		if query != "" && !matchesQuery(&p, query) {
			continue
		}
		result = append(result, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return priceOrZero(result[i].Price) < priceOrZero(result[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return priceOrZero(result[i].Price) > priceOrZero(result[j].Price)
		})
	}

	return result
}

// matchesQuery is a diacritic- and case-insensitive substring search across
// title, city and state.
func matchesQuery(p *models.Property, foldedQuery string) bool {
	for _, field := range []*string{p.Title, p.City, p.State} {
		if field == nil {
			continue
		}
		if strings.Contains(normalize.Fold(*field), foldedQuery) {
			return true
		}
	}
	return false
}

// AvailableOperations returns the sorted unique operation values present in
// the batch, for populating the operation filter control.
func AvailableOperations(properties []models.Property) []string {
	return uniqueSorted(properties, func(p *models.Property) *string { return p.Operation })
}

// AvailableStatuses returns the sorted unique status names present in the
// batch, for populating the status filter control.
func AvailableStatuses(properties []models.Property) []string {
	return uniqueSorted(properties, func(p *models.Property) *string {
		if p.Status == nil {
			return nil
		}
		return p.Status.Name
	})
}

func uniqueSorted(properties []models.Property, pick func(*models.Property) *string) []string {
	seen := map[string]bool{}
	values := []string{}
	for i := range properties {
		value := pick(&properties[i])
		if value == nil || *value == "" {
			continue
		}
		if !seen[*value] {
			seen[*value] = true
			values = append(values, *value)
		}
	}
	sort.Strings(values)
	return values
}

func statusName(p *models.Property) string {
	if p.Status == nil || p.Status.Name == nil {
		return ""
	}
	return *p.Status.Name
}

func priceOrZero(price *float64) float64 {
	if price == nil {
		return 0
	}
	return *price
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
