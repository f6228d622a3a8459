package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/util"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
	opts  *GenerateOptions
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	f.calls++
	f.opts = opts
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return ProviderResult{Text: f.text, Model: f.name + "-model"}, nil
}

func (f *fakeProvider) Ping(context.Context) bool { return f.err == nil }

func TestGenerateTextPrimary(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: "hello"}
	fallback := &fakeProvider{name: "OpenAI", text: "unused"}
	mm := NewModelManagerWithProviders(primary, fallback, nil, zap.NewNop())

	text, meta, err := mm.GenerateText(context.Background(), "q", PresetBalanced, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "Gemini", meta.Provider)
	assert.False(t, meta.UsedFallback)
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerateTextFallback(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New("503 Service Unavailable")}
	fallback := &fakeProvider{name: "OpenAI", text: "from fallback"}
	mm := NewModelManagerWithProviders(primary, fallback, nil, zap.NewNop())

	text, meta, err := mm.GenerateText(context.Background(), "q", PresetBalanced, &GenerateOptions{SystemInstruction: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", text)
	assert.True(t, meta.UsedFallback)
	assert.Equal(t, "sys", fallback.opts.SystemInstruction)
}

func TestGenerateTextBothFail(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New("boom")}
	fallback := &fakeProvider{name: "OpenAI", err: errors.New("bang")}
	mm := NewModelManagerWithProviders(primary, fallback, nil, zap.NewNop())

	_, _, err := mm.GenerateText(context.Background(), "q", PresetBalanced, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "bang")
}

func TestGenerateTextUnconfigured(t *testing.T) {
	mm := NewModelManagerWithProviders(nil, nil, nil, zap.NewNop())
	assert.False(t, mm.Configured())
	assert.Equal(t, "none", mm.PrimaryName())

	_, _, err := mm.GenerateText(context.Background(), "q", PresetBalanced, nil)
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestCircuitOpensAfterServiceFailures(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New("500 internal error")}
	mm := NewModelManagerWithProviders(primary, nil, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, _, err := mm.GenerateText(context.Background(), "q", PresetBalanced, nil)
		require.Error(t, err)
	}
	assert.Equal(t, util.CircuitOpen, mm.CircuitStatus().State)

	_, _, err := mm.GenerateText(context.Background(), "q", PresetBalanced, nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, primary.calls)

	mm.ResetCircuit()
	assert.Equal(t, util.CircuitClosed, mm.CircuitStatus().State)
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New("400 invalid argument")}
	mm := NewModelManagerWithProviders(primary, nil, nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _, _ = mm.GenerateText(context.Background(), "q", PresetBalanced, nil)
	}
	assert.Equal(t, util.CircuitClosed, mm.CircuitStatus().State)
	assert.Equal(t, 5, primary.calls)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isServiceFailure(errors.New("request timeout")))
	assert.True(t, isServiceFailure(context.DeadlineExceeded))
	assert.True(t, isServiceFailure(errors.New(`{"error":{"code":503}}`)))
	assert.True(t, isRateLimitError(errors.New("429 Too Many Requests")))
	assert.True(t, isRateLimitError(errors.New("quota exceeded")))
	assert.False(t, isServiceFailure(errors.New("401 unauthorized")))
	assert.False(t, isServiceFailure(nil))
}

func TestNewModelManagerWithoutKeys(t *testing.T) {
	mm, err := NewModelManager(context.Background(), ModelManagerConfig{}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mm.Configured())
}

func TestNewModelManagerOpenAIOnly(t *testing.T) {
	mm, err := NewModelManager(context.Background(), ModelManagerConfig{OpenAIAPIKey: "sk-test"}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, mm.Configured())
	assert.Equal(t, "OpenAI", mm.PrimaryName())
}
