package chat

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
)

type echoRecommender struct {
	mu      sync.Mutex
	queries []string
}

func (e *echoRecommender) Recommend(_ context.Context, query string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queries = append(e.queries, query)
	return "re: " + query
}

// blockingRecommender holds the reply until release is closed.
type blockingRecommender struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRecommender) Recommend(context.Context, string) string {
	close(b.started)
	<-b.release
	return "done"
}

func TestNewSessionStartsWithGreeting(t *testing.T) {
	s := NewSession(&echoRecommender{}, zap.NewNop())

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.ChatRoleModel, msgs[0].Role)
	assert.Equal(t, constants.AIMessages.Greeting, msgs[0].Text)
	assert.Equal(t, StateIdle, s.State())
	assert.NotEmpty(t, s.ID())
}

func TestSendAppendsUserAndModel(t *testing.T) {
	rec := &echoRecommender{}
	s := NewSession(rec, zap.NewNop())

	reply, ok := s.Send(context.Background(), "video tools?")
	require.True(t, ok)
	assert.Equal(t, "re: video tools?", reply.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.ChatRoleUser, msgs[1].Role)
	assert.Equal(t, "video tools?", msgs[1].Text)
	assert.Equal(t, domain.ChatRoleModel, msgs[2].Role)
	assert.Equal(t, StateIdle, s.State())
}

func TestSendIgnoresBlankInput(t *testing.T) {
	rec := &echoRecommender{}
	s := NewSession(rec, zap.NewNop())

	_, ok := s.Send(context.Background(), "   \n")
	assert.False(t, ok)
	assert.Len(t, s.Messages(), 1)
	assert.Empty(t, rec.queries)
}

func TestSendIgnoredWhileAwaiting(t *testing.T) {
	rec := &blockingRecommender{started: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(rec, zap.NewNop())

	done := make(chan bool)
	go func() {
		_, ok := s.Send(context.Background(), "first")
		done <- ok
	}()

	<-rec.started
	assert.Equal(t, StateAwaitingResponse, s.State())

	_, ok := s.Send(context.Background(), "second")
	assert.False(t, ok)

	close(rec.release)
	assert.True(t, <-done)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[1].Text)
	assert.Equal(t, "done", msgs[2].Text)
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := NewSession(&echoRecommender{}, zap.NewNop())
	msgs := s.Messages()
	msgs[0].Text = "changed"

	assert.Equal(t, constants.AIMessages.Greeting, s.Messages()[0].Text)
}
