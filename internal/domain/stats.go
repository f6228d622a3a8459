package domain

// CategoryCount is one bar of the category breakdown.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// PriceModelCount is one slice of the pricing breakdown.
type PriceModelCount struct {
	PriceModel PriceModel `json:"priceModel"`
	Count      int        `json:"count"`
}

// CatalogStats aggregates the current catalog for dashboards.
// Categories only lists non-zero buckets; PriceModels always lists all three.
type CatalogStats struct {
	Total       int               `json:"total"`
	Categories  []CategoryCount   `json:"categories"`
	PriceModels []PriceModelCount `json:"priceModels"`
}
