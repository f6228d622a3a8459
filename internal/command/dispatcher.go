package command

import (
	"context"
	"maps"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// CommandEvent is one decoded request waiting for dispatch.
type CommandEvent struct {
	Type   domain.CommandType
	Params map[string]any
}

type Dispatcher interface {
	Publish(ctx context.Context, cmdCtx *domain.CommandContext, events ...CommandEvent) (int, error)
}

// NormalizeFunc converts a command type plus params into the registry key
// and normalized parameter map used for execution.
type NormalizeFunc func(domain.CommandType, map[string]any) (string, map[string]any)

type sequentialDispatcher struct {
	registry  *Registry
	normalize NormalizeFunc
}

// NewSequentialDispatcher creates a dispatcher that executes events in the
// order they are received. A nil normalize uses the command type as the key.
func NewSequentialDispatcher(registry *Registry, normalize NormalizeFunc) Dispatcher {
	if normalize == nil {
		normalize = DefaultNormalize
	}
	return &sequentialDispatcher{registry: registry, normalize: normalize}
}

// DefaultNormalize keys by command type and accepts "text" as an alias of
// "query" for ask events.
func DefaultNormalize(cmdType domain.CommandType, params map[string]any) (string, map[string]any) {
	if cmdType == domain.CommandAsk {
		if _, ok := params["text"]; !ok {
			if q, ok := params["query"]; ok {
				params["text"] = q
			}
		}
	}
	return cmdType.String(), params
}

func (d *sequentialDispatcher) Publish(ctx context.Context, cmdCtx *domain.CommandContext, events ...CommandEvent) (int, error) {
	if d == nil || d.registry == nil {
		return 0, nil
	}

	executed := 0
	for _, event := range events {
		if event.Type == domain.CommandUnknown {
			continue
		}

		key, params := d.normalize(event.Type, cloneParams(event.Params))
		if err := d.registry.Execute(ctx, cmdCtx, key, params); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

func cloneParams(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	return maps.Clone(src)
}
