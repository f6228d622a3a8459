package server

import (
	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// frameScheduler runs ask frames on a bounded pool so a follow-up ask can be
// answered while the first awaits its reply. Every other frame runs inline on
// the read loop, in arrival order.
type frameScheduler struct {
	asks *pool.Pool
}

func newFrameScheduler(maxAsks int) *frameScheduler {
	if maxAsks < 1 {
		maxAsks = 1
	}
	return &frameScheduler{asks: pool.New().WithMaxGoroutines(maxAsks)}
}

// schedule blocks while the ask pool is full.
func (s *frameScheduler) schedule(event command.CommandEvent, run func()) {
	if event.Type != domain.CommandAsk {
		run()
		return
	}
	s.asks.Go(run)
}

func (s *frameScheduler) wait() {
	s.asks.Wait()
}
