package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type FavoriteCommand struct {
	deps *Dependencies
}

func NewFavoriteCommand(deps *Dependencies) *FavoriteCommand {
	return &FavoriteCommand{deps: deps}
}

func (c *FavoriteCommand) Name() string {
	return "favorite"
}

func (c *FavoriteCommand) Description() string {
	return "Toggle a tool in the favorites list"
}

func (c *FavoriteCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Send == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Catalog == nil {
		return c.deps.sendError("catalog not available")
	}

	id := stringParam(params, "id")
	if id == "" {
		return c.deps.sendError("id is required")
	}
	if _, ok := c.deps.Catalog.Get(id); !ok {
		return c.deps.sendError(fmt.Sprintf("tool %q not found", id))
	}

	favorite := c.deps.Catalog.ToggleFavorite(ctx, id)
	c.deps.logger().Info("Favorite toggled",
		zap.String("session", sessionID(cmdCtx)),
		zap.String("id", id),
		zap.Bool("favorite", favorite),
	)

	return c.deps.Send(Frame{Type: FrameFavorite, Payload: FavoritePayload{ID: id, Favorite: favorite}})
}
