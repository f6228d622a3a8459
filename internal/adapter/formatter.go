package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/service/catalogsync"
)

// ResponseFormatter renders command results as plain text for the terminal.
type ResponseFormatter struct {
	isFavorite func(id string) bool
}

// NewResponseFormatter creates a formatter. isFavorite marks favorites in tool
// listings and may be nil.
func NewResponseFormatter(isFavorite func(id string) bool) *ResponseFormatter {
	return &ResponseFormatter{isFavorite: isFavorite}
}

func (f *ResponseFormatter) FormatTools(tools []domain.Tool) string {
	favorite := f.isFavorite
	if favorite == nil {
		favorite = func(string) bool { return false }
	}
	data := struct {
		Tools []domain.Tool
		Count int
	}{Tools: tools, Count: len(tools)}

	return f.render("tools.tmpl", data, favorite)
}

func (f *ResponseFormatter) FormatStats(stats domain.CatalogStats) string {
	return f.render("stats.tmpl", stats, nil)
}

func (f *ResponseFormatter) FormatSyncResult(res catalogsync.Result) string {
	return f.render("sync.tmpl", res, nil)
}

func (f *ResponseFormatter) FormatHelp(entries []command.HelpEntry) string {
	return f.render("help.tmpl", entries, nil)
}

func (f *ResponseFormatter) FormatFavorite(id string, favorite bool) string {
	if favorite {
		return fmt.Sprintf("♥ %s added to favorites", id)
	}
	return fmt.Sprintf("%s removed from favorites", id)
}

func (f *ResponseFormatter) FormatReply(msg domain.ChatMessage) string {
	return strings.TrimSpace(msg.Text)
}

func (f *ResponseFormatter) FormatError(message string) string {
	return fmt.Sprintf("❌ %s", message)
}

// FormatFrame renders any outbound command frame.
func (f *ResponseFormatter) FormatFrame(frame command.Frame) string {
	switch p := frame.Payload.(type) {
	case command.ToolsPayload:
		return f.FormatTools(p.Tools)
	case domain.CatalogStats:
		return f.FormatStats(p)
	case command.FavoritePayload:
		return f.FormatFavorite(p.ID, p.Favorite)
	case domain.ChatMessage:
		return f.FormatReply(p)
	case []command.HelpEntry:
		return f.FormatHelp(p)
	case command.ErrorPayload:
		return f.FormatError(p.Error)
	}

	if frame.Type == command.FrameIgnored {
		return "(ignored: a reply is still pending)"
	}
	return frame.Type
}

func (f *ResponseFormatter) render(name string, data any, favorite func(string) bool) string {
	out, err := executeFormatterTemplate(name, data, favorite)
	if err != nil {
		return f.FormatError(fmt.Sprintf("render %s: %v", name, err))
	}
	return out
}
