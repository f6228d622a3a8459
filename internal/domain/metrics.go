package domain

import "time"

// Metrics receives operational measurements. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveSync(source string, err error)
	SetCatalogSize(count int)
	ObserveRecommendation(provider string, err error)
	ObserveHTTPRequest(route string, status int, duration time.Duration)
	SetCircuitState(breaker, state string)
}
