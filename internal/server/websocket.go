package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/chat"
	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// socketConn serialises writes; gorilla allows one concurrent writer.
type socketConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	logger *zap.Logger
}

func (c *socketConn) send(frame command.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteWait))
	return c.conn.WriteJSON(frame)
}

func (c *socketConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(constants.WebSocketConfig.WriteWait))
}

// handleChatSocket upgrades the request and binds one chat session to the
// connection. Ask frames run on a small bounded pool so that an ask arriving
// while the previous one awaits its reply is answered with "ignored".
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err), zap.String("remoteAddr", r.RemoteAddr))
		return
	}

	var recommender chat.Recommender = unavailableRecommender{}
	if s.deps.Recommender != nil {
		recommender = s.deps.Recommender
	}
	session := chat.NewSession(recommender, s.logger)
	logger := s.logger.With(zap.String("session", session.ID()))
	conn := &socketConn{conn: raw, logger: logger}

	deps := &command.Dependencies{
		Catalog: s.deps.Store,
		Session: session,
		Send:    conn.send,
		Logger:  logger,
	}
	dispatcher := command.NewSequentialDispatcher(command.NewDefaultRegistry(deps), nil)
	cmdCtx := domain.NewCommandContext(session.ID(), r.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Chat session opened", zap.String("remoteAddr", r.RemoteAddr))
	if err := conn.send(command.Frame{Type: command.FrameReply, Payload: session.Messages()[0]}); err != nil {
		_ = raw.Close()
		return
	}

	var wg conc.WaitGroup
	wg.Go(func() { s.keepAlive(ctx, conn) })
	frames := newFrameScheduler(constants.WebSocketConfig.MaxAsks)

	raw.SetReadLimit(constants.WebSocketConfig.ReadLimit)
	_ = raw.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongWait))
	})

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}

		event, err := command.DecodeEvent(data)
		if err != nil {
			_ = conn.send(command.Frame{Type: command.FrameError, Payload: command.ErrorPayload{Error: err.Error()}})
			continue
		}
		if event.Type == domain.CommandUnknown {
			_ = conn.send(command.Frame{Type: command.FrameError, Payload: command.ErrorPayload{Error: "unknown message type"}})
			continue
		}

		frames.schedule(event, func() {
			if _, err := dispatcher.Publish(ctx, cmdCtx, event); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Chat command failed", zap.String("type", event.Type.String()), zap.Error(err))
			}
		})
	}

	cancel()
	frames.wait()
	wg.Wait()
	_ = raw.Close()
	logger.Info("Chat session closed", zap.Int("messages", len(session.Messages())))
}

func (s *Server) keepAlive(ctx context.Context, conn *socketConn) {
	ticker := time.NewTicker(constants.WebSocketConfig.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				conn.logger.Debug("WebSocket ping failed", zap.Error(err))
				return
			}
		}
	}
}

type unavailableRecommender struct{}

func (unavailableRecommender) Recommend(context.Context, string) string {
	return constants.AIMessages.NotConfigured
}
