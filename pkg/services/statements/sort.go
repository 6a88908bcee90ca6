package statements

import (
	"sort"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
)

// Toggle returns the config that results from selecting key: the same key
// flips direction, a new key starts ascending.
func Toggle(cfg domain.SortConfig, key domain.SortKey) domain.SortConfig {
	if cfg.Key == key && !cfg.Descending() {
		return domain.SortConfig{Key: key, Direction: domain.SortDesc}
	}
	return domain.SortConfig{Key: key, Direction: domain.SortAsc}
}

func compare(a, b domain.IncomeStatement, key domain.SortKey) int {
	switch key {
	case domain.SortKeyDate:
		return compareOrdered(a.Date, b.Date)
	case domain.SortKeyRevenue:
		return compareOrdered(a.Revenue, b.Revenue)
	case domain.SortKeyNetIncome:
		return compareOrdered(a.NetIncome, b.NetIncome)
	}
	return 0
}

func compareOrdered[T string | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sort returns a reordered copy of records. Equal elements keep their input
// order.
func Sort(records []domain.IncomeStatement, cfg domain.SortConfig) []domain.IncomeStatement {
	sorted := make([]domain.IncomeStatement, len(records))
	copy(sorted, records)
	if cfg.Key == domain.SortKeyNone {
		return sorted
	}

	desc := cfg.Descending()
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j], cfg.Key)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}
