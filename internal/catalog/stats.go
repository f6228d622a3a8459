package catalog

import "github.com/kapu/affiliate-hub-go/internal/domain"

// Stats aggregates the current catalog in a single pass.
func (s *Store) Stats() domain.CatalogStats {
	s.mu.RLock()
	tools := s.tools
	s.mu.RUnlock()

	return Aggregate(tools)
}

// Aggregate counts tools per category and per price model. Category buckets
// with no tools are omitted; all three price models are always present.
func Aggregate(tools []domain.Tool) domain.CatalogStats {
	categoryCounts := make(map[domain.Category]int)
	priceCounts := make(map[domain.PriceModel]int)

	for _, t := range tools {
		categoryCounts[t.Category]++
		priceCounts[t.PriceModel]++
	}

	stats := domain.CatalogStats{
		Total:       len(tools),
		Categories:  make([]domain.CategoryCount, 0, len(categoryCounts)),
		PriceModels: make([]domain.PriceModelCount, 0, 3),
	}

	for _, c := range domain.Categories() {
		if n := categoryCounts[c]; n > 0 {
			stats.Categories = append(stats.Categories, domain.CategoryCount{Category: c, Count: n})
		}
	}
	for _, p := range domain.PriceModels() {
		stats.PriceModels = append(stats.PriceModels, domain.PriceModelCount{PriceModel: p, Count: priceCounts[p]})
	}
	return stats
}
