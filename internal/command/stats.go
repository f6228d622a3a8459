package command

import (
	"context"
	"fmt"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type StatsCommand struct {
	deps *Dependencies
}

func NewStatsCommand(deps *Dependencies) *StatsCommand {
	return &StatsCommand{deps: deps}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Category and pricing breakdown of the catalog"
}

func (c *StatsCommand) Execute(_ context.Context, _ *domain.CommandContext, _ map[string]any) error {
	if c.deps == nil || c.deps.Send == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Catalog == nil {
		return c.deps.sendError("catalog not available")
	}

	return c.deps.Send(Frame{Type: FrameStats, Payload: c.deps.Catalog.Stats()})
}
