package metrics

import (
	"time"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// Noop discards every measurement. Used by CLI one-shot commands.
type Noop struct{}

func (Noop) ObserveSync(string, error) {}
func (Noop) SetCatalogSize(int) {}
func (Noop) ObserveRecommendation(string, error) {}
func (Noop) ObserveHTTPRequest(string, int, time.Duration) {}
func (Noop) SetCircuitState(string, string) {}

var _ domain.Metrics = Noop{}
