package command

import (
	"context"
	"fmt"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type QueryCommand struct {
	deps *Dependencies
}

func NewQueryCommand(deps *Dependencies) *QueryCommand {
	return &QueryCommand{deps: deps}
}

func (c *QueryCommand) Name() string {
	return "query"
}

func (c *QueryCommand) Description() string {
	return "Filter the catalog by search text, category and minimum rating"
}

func (c *QueryCommand) Execute(_ context.Context, _ *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Send == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Catalog == nil {
		return c.deps.sendError("catalog not available")
	}

	q, err := catalog.ParseQuery(
		stringParam(params, "search"),
		stringParam(params, "category"),
		stringParam(params, "minRating"),
	)
	if err != nil {
		return c.deps.sendError(err.Error())
	}

	tools := c.deps.Catalog.Query(q)
	return c.deps.Send(Frame{Type: FrameTools, Payload: ToolsPayload{Tools: tools, Count: len(tools)}})
}
