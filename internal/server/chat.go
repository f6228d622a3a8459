package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	apperrors "github.com/kapu/affiliate-hub-go/pkg/errors"
)

var validate = validator.New()

type chatRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// handleChat is the stateless concierge endpoint: one query, one reply.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.deps.Recommender == nil {
		s.writeError(w, apperrors.NewAPIError("concierge not available", http.StatusServiceUnavailable, nil))
		return
	}
	if !s.chatLimiter.Allow() {
		s.writeError(w, apperrors.NewAPIError("rate limit exceeded", http.StatusTooManyRequests, nil))
		return
	}

	var req chatRequest
	body := http.MaxBytesReader(w, r.Body, constants.HTTPConfig.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, apperrors.NewValidationError("request body must be JSON", "body", nil))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if err := validateStruct(req); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: s.deps.Recommender.Recommend(r.Context(), req.Query)})
}

// validateStruct runs the struct tags and reports the first failure as a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return apperrors.NewValidationError(err.Error(), "", nil)
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "max":
		message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}
	return apperrors.NewValidationError(message, field, fe.Value())
}

type conciergeStatusResponse struct {
	Provider string     `json:"provider"`
	Circuit  string     `json:"circuit"`
	Failures int        `json:"failures"`
	RetryAt  *time.Time `json:"retryAt,omitempty"`
}

func (s *Server) handleConciergeStatus(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Concierge == nil {
		s.writeError(w, apperrors.NewAPIError("concierge not available", http.StatusServiceUnavailable, nil))
		return
	}
	writeJSON(w, http.StatusOK, s.conciergeStatus())
}

// handleConciergeReset closes the generation circuit so the next query goes
// straight to the providers instead of waiting out the cooldown.
func (s *Server) handleConciergeReset(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Concierge == nil {
		s.writeError(w, apperrors.NewAPIError("concierge not available", http.StatusServiceUnavailable, nil))
		return
	}
	before := s.deps.Concierge.CircuitStatus()
	s.deps.Concierge.ResetCircuit()
	s.logger.Info("Generation circuit reset",
		zap.String("previous_state", before.State.String()),
		zap.Int("failures", before.Failures),
	)
	writeJSON(w, http.StatusOK, s.conciergeStatus())
}

func (s *Server) conciergeStatus() conciergeStatusResponse {
	status := s.deps.Concierge.CircuitStatus()
	return conciergeStatusResponse{
		Provider: s.deps.Concierge.PrimaryName(),
		Circuit:  status.State.String(),
		Failures: status.Failures,
		RetryAt:  status.RetryAt,
	}
}
