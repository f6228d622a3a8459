package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeStorage    = "STORAGE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type NotFoundError struct {
	*AppError
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    fmt.Sprintf("%s not found", resource),
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
				"id":       id,
			},
		},
		Resource: resource,
		ID:       id,
	}
}

type StorageError struct {
	*AppError
	Operation string
	Key       string
}

func NewStorageError(message, operation, key string, cause error) *StorageError {
	return &StorageError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 502,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

type ConfigError struct {
	*AppError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeConfig,
			StatusCode: 500,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}

// StatusCode walks the chain for an *AppError and returns its status, or fallback.
func StatusCode(err error, fallback int) int {
	if app := AsAppError(err); app != nil && app.StatusCode != 0 {
		return app.StatusCode
	}
	return fallback
}

// AsAppError returns the first *AppError in err's chain, including the ones
// embedded in the typed wrappers above.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var app *AppError
	if stderrors.As(err, &app) {
		return app
	}
	var (
		apiErr        *APIError
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		storageErr    *StorageError
		serviceErr    *ServiceError
		configErr     *ConfigError
	)
	switch {
	case stderrors.As(err, &apiErr):
		return apiErr.AppError
	case stderrors.As(err, &validationErr):
		return validationErr.AppError
	case stderrors.As(err, &notFoundErr):
		return notFoundErr.AppError
	case stderrors.As(err, &storageErr):
		return storageErr.AppError
	case stderrors.As(err, &serviceErr):
		return serviceErr.AppError
	case stderrors.As(err, &configErr):
		return configErr.AppError
	}
	return nil
}
