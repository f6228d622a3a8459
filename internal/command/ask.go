package command

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type AskCommand struct {
	deps *Dependencies
}

func NewAskCommand(deps *Dependencies) *AskCommand {
	return &AskCommand{deps: deps}
}

func (c *AskCommand) Name() string {
	return "ask"
}

func (c *AskCommand) Description() string {
	return "Ask the AI concierge for a tool recommendation"
}

func (c *AskCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Send == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Session == nil {
		return c.deps.sendError("chat session not available")
	}

	text, _ := params["text"].(string)

	reply, ok := c.deps.Session.Send(ctx, text)
	if !ok {
		c.deps.logger().Debug("Ask ignored",
			zap.String("session", sessionID(cmdCtx)),
			zap.Bool("blank", strings.TrimSpace(text) == ""),
		)
		return c.deps.Send(Frame{Type: FrameIgnored})
	}

	return c.deps.Send(Frame{Type: FrameReply, Payload: reply})
}

func sessionID(cmdCtx *domain.CommandContext) string {
	if cmdCtx == nil {
		return ""
	}
	return cmdCtx.SessionID
}
