package command

import (
	"context"
	"fmt"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type HelpCommand struct {
	deps     *Dependencies
	registry *Registry
}

func NewHelpCommand(deps *Dependencies, registry *Registry) *HelpCommand {
	return &HelpCommand{deps: deps, registry: registry}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List the available commands"
}

func (c *HelpCommand) Execute(_ context.Context, _ *domain.CommandContext, _ map[string]any) error {
	if c.deps == nil || c.deps.Send == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	var entries []HelpEntry
	if c.registry != nil {
		for _, cmd := range c.registry.List() {
			entries = append(entries, HelpEntry{Name: cmd.Name(), Description: cmd.Description()})
		}
	}
	return c.deps.Send(Frame{Type: FrameHelp, Payload: entries})
}
