package command

import (
	"context"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// Catalog is the slice of *catalog.Store the commands read and mutate.
type Catalog interface {
	Query(q catalog.Query) []domain.Tool
	Get(id string) (domain.Tool, bool)
	ToggleFavorite(ctx context.Context, id string) bool
	Stats() domain.CatalogStats
}

// ChatSession is satisfied by *chat.Session.
type ChatSession interface {
	Send(ctx context.Context, text string) (domain.ChatMessage, bool)
}

type Dependencies struct {
	Catalog Catalog
	Session ChatSession
	Send    func(frame Frame) error
	Logger  *zap.Logger
}

func (d *Dependencies) sendError(message string) error {
	return d.Send(Frame{Type: FrameError, Payload: ErrorPayload{Error: message}})
}

func (d *Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
