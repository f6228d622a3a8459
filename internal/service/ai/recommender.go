package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/metrics"
	"github.com/kapu/affiliate-hub-go/internal/prompt"
)

// Generator is the text generation surface the recommender needs.
// *ModelManager satisfies it.
type Generator interface {
	Configured() bool
	GenerateText(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (string, *GenerateMetadata, error)
}

// Recommender answers concierge questions against the current catalog.
type Recommender struct {
	generator Generator
	tools     domain.ToolProvider
	prompts   *prompt.Builder
	metrics   domain.Metrics
	logger    *zap.Logger
	timeout   time.Duration
	preset    ModelPreset
	overrides *ModelConfig
}

func NewRecommender(generator Generator, tools domain.ToolProvider, m domain.Metrics, logger *zap.Logger) *Recommender {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Recommender{
		generator: generator,
		tools:     tools,
		prompts:   prompt.Default(),
		metrics:   m,
		logger:    logger,
		timeout:   constants.AIConfig.RequestTimeout,
		preset:    PresetBalanced,
	}
}

// WithGeneration sets the sampling preset. A positive temperature overrides the
// preset's own.
func (r *Recommender) WithGeneration(preset ModelPreset, temperature float32) *Recommender {
	r.preset = preset
	r.overrides = nil
	if temperature > 0 {
		r.overrides = &ModelConfig{Temperature: temperature}
	}
	return r
}

func (r *Recommender) Preset() ModelPreset {
	return r.preset
}

// Configured reports whether a generation provider is available.
func (r *Recommender) Configured() bool {
	return r.generator != nil && r.generator.Configured()
}

// Recommend returns the model's answer verbatim. It never fails: without a
// provider it returns the configuration hint, and any generation error or
// empty answer yields the fixed apology.
func (r *Recommender) Recommend(ctx context.Context, query string) string {
	if !r.Configured() {
		return constants.AIMessages.NotConfigured
	}

	sanitized := SanitizeQuery(query)
	if sanitized == "" {
		return constants.AIMessages.Apology
	}

	tools := r.tools.Snapshot()
	system := prompt.BuildConciergeSystem(r.prompts, prompt.ConciergeSystemData{
		ToolCount:   len(tools),
		ToolContext: BuildToolContext(tools),
	})

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, meta, err := r.generator.GenerateText(ctx, sanitized, r.preset, &GenerateOptions{
		SystemInstruction: system,
		Overrides:         r.overrides,
	})

	provider := "none"
	if meta != nil {
		provider = meta.Provider
	}

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	r.metrics.ObserveRecommendation(provider, err)

	if err != nil {
		level := zap.ErrorLevel
		if errors.Is(err, ErrCircuitOpen) {
			level = zap.WarnLevel
		}
		r.logger.Log(level, "Recommendation failed",
			zap.Int("query_length", len([]rune(sanitized))),
			zap.Error(err),
		)
		return constants.AIMessages.Apology
	}

	if meta != nil {
		r.logger.Debug("Recommendation generated",
			zap.String("provider", provider),
			zap.String("model", meta.Model),
			zap.Bool("fallback", meta.UsedFallback),
		)
	}
	return text
}
