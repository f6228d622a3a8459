package command

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/service/favorites"
)

type fakeSession struct {
	reply string
	busy  bool
	texts []string
}

func (f *fakeSession) Send(_ context.Context, text string) (domain.ChatMessage, bool) {
	if f.busy || text == "" {
		return domain.ChatMessage{}, false
	}
	f.texts = append(f.texts, text)
	return domain.NewChatMessage(domain.ChatRoleModel, f.reply), true
}

type recorder struct {
	frames []Frame
}

func (r *recorder) send(frame Frame) error {
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recorder) last(t *testing.T) Frame {
	t.Helper()
	if len(r.frames) == 0 {
		t.Fatalf("expected a frame to be sent")
	}
	return r.frames[len(r.frames)-1]
}

func newDeps(t *testing.T, session ChatSession) (*Dependencies, *recorder) {
	t.Helper()
	store := catalog.NewStore(favorites.NewSet(favorites.NewMemoryStore(), zap.NewNop()), zap.NewNop())
	store.ReplaceAll([]domain.Tool{
		{ID: "a", Name: "Alpha Writer", Category: domain.CategoryText, PriceModel: domain.PricePaid, Rating: 4.6},
		{ID: "b", Name: "Beta Canvas", Category: domain.CategoryImage, PriceModel: domain.PriceFree, Rating: 3.9},
	})

	rec := &recorder{}
	return &Dependencies{
		Catalog: store,
		Session: session,
		Send:    rec.send,
		Logger:  zap.NewNop(),
	}, rec
}

func cmdCtx() *domain.CommandContext {
	return domain.NewCommandContext("session-1", "127.0.0.1")
}

func TestAskCommandRepliesWithModelMessage(t *testing.T) {
	session := &fakeSession{reply: "Try **Alpha Writer**."}
	deps, rec := newDeps(t, session)

	if err := NewAskCommand(deps).Execute(context.Background(), cmdCtx(), map[string]any{"text": "copywriting?"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	frame := rec.last(t)
	if frame.Type != FrameReply {
		t.Fatalf("expected reply frame, got %s", frame.Type)
	}
	msg, ok := frame.Payload.(domain.ChatMessage)
	if !ok || msg.Text != "Try **Alpha Writer**." {
		t.Fatalf("unexpected payload: %#v", frame.Payload)
	}
	if len(session.texts) != 1 || session.texts[0] != "copywriting?" {
		t.Fatalf("expected session to receive the text once, got %v", session.texts)
	}
}

func TestAskCommandIgnoredWhileBusy(t *testing.T) {
	deps, rec := newDeps(t, &fakeSession{busy: true})

	if err := NewAskCommand(deps).Execute(context.Background(), cmdCtx(), map[string]any{"text": "again"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if frame := rec.last(t); frame.Type != FrameIgnored {
		t.Fatalf("expected ignored frame, got %s", frame.Type)
	}
}

func TestAskCommandWithoutSession(t *testing.T) {
	deps, rec := newDeps(t, nil)

	if err := NewAskCommand(deps).Execute(context.Background(), cmdCtx(), map[string]any{"text": "hi"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if frame := rec.last(t); frame.Type != FrameError {
		t.Fatalf("expected error frame, got %s", frame.Type)
	}
}

func TestQueryCommandFilters(t *testing.T) {
	deps, rec := newDeps(t, nil)

	err := NewQueryCommand(deps).Execute(context.Background(), cmdCtx(), map[string]any{
		"search":    "",
		"category":  "All",
		"minRating": 4.0,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	payload, ok := rec.last(t).Payload.(ToolsPayload)
	if !ok {
		t.Fatalf("unexpected payload: %#v", rec.last(t).Payload)
	}
	if payload.Count != 1 || payload.Tools[0].ID != "a" {
		t.Fatalf("expected only tool a, got %+v", payload.Tools)
	}
}

func TestQueryCommandRejectsBadRating(t *testing.T) {
	deps, rec := newDeps(t, nil)

	if err := NewQueryCommand(deps).Execute(context.Background(), cmdCtx(), map[string]any{"minRating": "high"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if frame := rec.last(t); frame.Type != FrameError {
		t.Fatalf("expected error frame, got %s", frame.Type)
	}
}

func TestFavoriteCommandToggles(t *testing.T) {
	deps, rec := newDeps(t, nil)
	cmd := NewFavoriteCommand(deps)

	for _, want := range []bool{true, false} {
		if err := cmd.Execute(context.Background(), cmdCtx(), map[string]any{"id": "b"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		payload, ok := rec.last(t).Payload.(FavoritePayload)
		if !ok || payload.ID != "b" || payload.Favorite != want {
			t.Fatalf("expected favorite=%v, got %#v", want, rec.last(t).Payload)
		}
	}
}

func TestFavoriteCommandUnknownID(t *testing.T) {
	deps, rec := newDeps(t, nil)

	if err := NewFavoriteCommand(deps).Execute(context.Background(), cmdCtx(), map[string]any{"id": "zzz"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if frame := rec.last(t); frame.Type != FrameError {
		t.Fatalf("expected error frame, got %s", frame.Type)
	}
	if deps.Catalog.(*catalog.Store).IsFavorite("zzz") {
		t.Fatalf("unknown id must not become a favorite")
	}
}

func TestStatsCommand(t *testing.T) {
	deps, rec := newDeps(t, nil)

	if err := NewStatsCommand(deps).Execute(context.Background(), cmdCtx(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	stats, ok := rec.last(t).Payload.(domain.CatalogStats)
	if !ok || stats.Total != 2 {
		t.Fatalf("unexpected stats payload: %#v", rec.last(t).Payload)
	}
}

func TestDispatcherRoutesDecodedFrames(t *testing.T) {
	session := &fakeSession{reply: "ok"}
	deps, rec := newDeps(t, session)
	dispatcher := NewSequentialDispatcher(NewDefaultRegistry(deps), nil)

	event, err := DecodeEvent([]byte(`{"type":"ASK","payload":{"query":"video?"}}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	unknown, err := DecodeEvent([]byte(`{"type":"dance"}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	executed, err := dispatcher.Publish(context.Background(), cmdCtx(), event, unknown)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected one executed event, got %d", executed)
	}
	if len(session.texts) != 1 || session.texts[0] != "video?" {
		t.Fatalf("expected query alias to reach the session, got %v", session.texts)
	}
	if _, ok := event.Params["text"]; ok {
		t.Fatalf("expected original params to remain unchanged")
	}
	if rec.last(t).Type != FrameReply {
		t.Fatalf("expected reply frame, got %s", rec.last(t).Type)
	}
}

func TestDecodeEventRejectsBadInput(t *testing.T) {
	for _, raw := range []string{`not json`, `{"type":"query","payload":[1,2]}`} {
		if _, err := DecodeEvent([]byte(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestRegistryUnknownKey(t *testing.T) {
	deps, _ := newDeps(t, nil)
	registry := NewDefaultRegistry(deps)

	if registry.Count() != 5 {
		t.Fatalf("expected 5 commands, got %d", registry.Count())
	}
	err := registry.Execute(context.Background(), cmdCtx(), "alarm", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestHelpListsCommands(t *testing.T) {
	deps, rec := newDeps(t, nil)
	registry := NewDefaultRegistry(deps)

	if err := registry.Execute(context.Background(), cmdCtx(), "help", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	entries, ok := rec.last(t).Payload.([]HelpEntry)
	if !ok || len(entries) != 5 || entries[0].Name != "ask" {
		t.Fatalf("unexpected help payload: %#v", rec.last(t).Payload)
	}
}
