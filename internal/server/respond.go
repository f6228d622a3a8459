package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/kapu/affiliate-hub-go/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err onto {error, code} using the status carried by an AppError.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err, http.StatusInternalServerError)
	code := apperrors.CodeAppError
	message := err.Error()
	if app := apperrors.AsAppError(err); app != nil {
		code = app.Code
		message = app.Message
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
