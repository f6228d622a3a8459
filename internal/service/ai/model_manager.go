package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/metrics"
	"github.com/kapu/affiliate-hub-go/internal/util"
)

var (
	// ErrNoProvider is returned when no API key was configured for any provider.
	ErrNoProvider = errors.New("no generation provider configured")
	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("generation service temporarily unavailable")
)

var (
	serverStatusPattern = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodePattern   = regexp.MustCompile(`"code":(\d{3})`)
	openaiCodePattern   = regexp.MustCompile(`^(\d{3})\s`)
)

type ModelManager struct {
	primary  TextProvider
	fallback TextProvider
	breaker  *util.CircuitBreaker
	logger   *zap.Logger
}

type ModelManagerConfig struct {
	GeminiAPIKey       string
	OpenAIAPIKey       string
	DefaultGeminiModel string
	DefaultOpenAIModel string
	EnableFallback     bool
}

// NewModelManager wires Gemini as the primary provider and OpenAI as the
// fallback. With only an OpenAI key, OpenAI becomes primary. With no keys the
// manager is returned unconfigured and every call fails with ErrNoProvider.
func NewModelManager(ctx context.Context, cfg ModelManagerConfig, m domain.Metrics, logger *zap.Logger) (*ModelManager, error) {
	defaultGemini := cfg.DefaultGeminiModel
	if defaultGemini == "" {
		defaultGemini = constants.AIConfig.DefaultGeminiModel
	}

	defaultOpenAI := cfg.DefaultOpenAIModel
	if defaultOpenAI == "" {
		defaultOpenAI = constants.AIConfig.DefaultOpenAIModel
	}

	var primary, fallback TextProvider

	if cfg.GeminiAPIKey != "" {
		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		primary = NewGeminiProvider(geminiClient, defaultGemini, logger)
		logger.Info("Gemini provider enabled", zap.String("model", defaultGemini))
	}

	if openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, defaultOpenAI, logger); openaiProvider != nil {
		switch {
		case primary == nil:
			primary = openaiProvider
			logger.Info("OpenAI provider enabled as primary", zap.String("model", defaultOpenAI))
		case cfg.EnableFallback:
			fallback = openaiProvider
			logger.Info("OpenAI fallback enabled", zap.String("model", defaultOpenAI))
		}
	} else {
		logger.Info("OpenAI fallback disabled (no API key)")
	}

	return NewModelManagerWithProviders(primary, fallback, m, logger), nil
}

// NewModelManagerWithProviders builds a manager over explicit providers.
// primary may be nil for an unconfigured manager; m may be nil.
func NewModelManagerWithProviders(primary, fallback TextProvider, m domain.Metrics, logger *zap.Logger) *ModelManager {
	if m == nil {
		m = metrics.Noop{}
	}
	mm := &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
	mm.breaker = util.NewCircuitBreaker(util.BreakerOptions{
		Name:             "generation",
		FailureThreshold: constants.CircuitBreakerConfig.FailureThreshold,
		ResetTimeout:     constants.CircuitBreakerConfig.ResetTimeout,
		ProbeInterval:    constants.CircuitBreakerConfig.HealthCheckInterval,
		Probe:            mm.probeProviders,
		OnStateChange: func(name string, _, to util.CircuitState) {
			m.SetCircuitState(name, to.String())
		},
		Logger: logger,
	})
	return mm
}

// Configured reports whether any provider is available.
func (mm *ModelManager) Configured() bool {
	return mm != nil && mm.primary != nil
}

// GenerateText asks the primary provider, then the fallback, for free-form text.
func (mm *ModelManager) GenerateText(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (string, *GenerateMetadata, error) {
	if !mm.Configured() {
		return "", nil, ErrNoProvider
	}

	if !mm.breaker.Allow() {
		status := mm.breaker.Status()
		retry := "unknown"
		if status.RetryAt != nil {
			retry = status.RetryAt.Format(time.RFC3339)
		}

		mm.logger.Warn("Generation skipped, circuit open",
			zap.Int("failures", status.Failures),
			zap.String("retry_at", retry),
		)
		return "", nil, fmt.Errorf("%w until %s", ErrCircuitOpen, retry)
	}

	primaryResult, primaryErr := mm.primary.Generate(ctx, prompt, preset, opts)
	if primaryErr == nil {
		mm.breaker.Success()
		return primaryResult.Text, &GenerateMetadata{
			Provider: mm.primary.Name(),
			Model:    primaryResult.Model,
		}, nil
	}

	if mm.fallback != nil {
		mm.logger.Warn("Primary provider failed, trying fallback",
			zap.String("primary", mm.primary.Name()),
			zap.Error(primaryErr),
		)

		fallbackResult, fallbackErr := mm.fallback.Generate(ctx, prompt, preset, opts)
		if fallbackErr == nil {
			mm.breaker.Success()
			return fallbackResult.Text, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}, nil
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fallbackErr)
		return "", nil, fmt.Errorf("all providers failed: %w", errors.Join(primaryErr, fallbackErr))
	}

	mm.recordFailure(primaryErr)
	return "", nil, primaryErr
}

// PrimaryName returns the primary provider's name, or "none".
func (mm *ModelManager) PrimaryName() string {
	if !mm.Configured() {
		return "none"
	}
	return mm.primary.Name()
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}

	mm.breaker.Failure(timeout)
}

func (mm *ModelManager) probeProviders() bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	primaryOK := mm.primary != nil && mm.primary.Ping(ctx)
	fallbackOK := mm.fallback != nil && mm.fallback.Ping(ctx)

	mm.logger.Info("Generation providers probed",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
	)
	return primaryOK || fallbackOK
}

func (mm *ModelManager) CircuitStatus() util.CircuitStatus {
	return mm.breaker.Status()
}

func (mm *ModelManager) ResetCircuit() {
	mm.breaker.Reset()
}

// isServiceFailure reports whether err points at the upstream service rather
// than the request: timeouts, rate limits and 5xx responses.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}

	if isRateLimitError(err) {
		return true
	}

	if serverStatusPattern.MatchString(msg) {
		return true
	}

	return matchStatus(msg, func(code int) bool { return code >= 500 && code < 600 })
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	return matchStatus(msg, func(code int) bool { return code == 429 })
}

func matchStatus(msg string, pred func(int) bool) bool {
	for _, pattern := range []*regexp.Regexp{geminiCodePattern, openaiCodePattern} {
		if matches := pattern.FindStringSubmatch(msg); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return pred(code)
			}
		}
	}
	return false
}
