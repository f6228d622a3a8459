package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
)

// Recommender produces the model reply for a user message. It must not fail.
type Recommender interface {
	Recommend(ctx context.Context, query string) string
}

// Session is one concierge conversation. The log is append-only and at most
// one send is in flight; a send that arrives while awaiting is dropped.
type Session struct {
	id          string
	recommender Recommender
	logger      *zap.Logger

	mu       sync.Mutex
	state    State
	messages []domain.ChatMessage
}

func NewSession(recommender Recommender, logger *zap.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:          id,
		recommender: recommender,
		logger:      logger.With(zap.String("session", id)),
		state:       StateIdle,
		messages: []domain.ChatMessage{
			domain.NewChatMessage(domain.ChatRoleModel, constants.AIMessages.Greeting),
		},
	}
}

func (s *Session) ID() string {
	return s.id
}

// Send records text as a user message and returns the model reply. ok is false
// when text is blank or another send is still awaiting its reply; nothing is
// recorded in that case.
func (s *Session) Send(ctx context.Context, text string) (domain.ChatMessage, bool) {
	if strings.TrimSpace(text) == "" {
		return domain.ChatMessage{}, false
	}

	s.mu.Lock()
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		s.logger.Debug("Send ignored while awaiting response")
		return domain.ChatMessage{}, false
	}
	s.messages = append(s.messages, domain.NewChatMessage(domain.ChatRoleUser, text))
	s.state = StateAwaitingResponse
	s.mu.Unlock()

	reply := domain.NewChatMessage(domain.ChatRoleModel, s.recommender.Recommend(ctx, text))

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.state = StateIdle
	s.mu.Unlock()

	return reply, true
}

// Messages returns a copy of the log.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
