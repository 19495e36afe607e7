// Package errors provides standardized error handling for the assistant service.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRestaurantNotFound ErrorCode = "RESTAURANT_NOT_FOUND"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"

	ErrCodeTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeConversationLogFailed    ErrorCode = "CONVERSATION_LOG_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeUnknownTool          ErrorCode = "UNKNOWN_TOOL"
	ErrCodeToolValidationFailed ErrorCode = "TOOL_VALIDATION_FAILED"
	ErrCodeToolExecutionFailed  ErrorCode = "TOOL_EXECUTION_FAILED"

	ErrCodeIntentParsingFailed    ErrorCode = "INTENT_PARSING_FAILED"
	ErrCodeSentimentParsingFailed ErrorCode = "SENTIMENT_PARSING_FAILED"
	ErrCodeLLMTimeout             ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMUnavailable         ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeLLMBadResponse         ErrorCode = "LLM_BAD_RESPONSE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRestaurantNotFoundError creates a non-retryable lookup error.
func NewRestaurantNotFoundError(restaurantID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRestaurantNotFound,
		Message:   "Restaurant not found",
		Details:   fmt.Sprintf("restaurantId: %s", restaurantID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable request validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError creates a non-retryable template error.
func NewTemplateNotFoundError(templateName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Response template not found",
		Details:   fmt.Sprintf("template: %s", templateName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConversationLogFailedError creates a retryable conversation logging error.
func NewConversationLogFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConversationLogFailed,
		Message:   "Conversation log write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Callers treat
// this as a cache miss rather than failing the request.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Response cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownToolError creates a non-retryable unknown tool error.
func NewUnknownToolError(toolName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownTool,
		Message:   "Requested tool is not registered",
		Details:   fmt.Sprintf("tool: %s", toolName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolValidationFailedError creates a non-retryable tool argument error.
func NewToolValidationFailedError(toolName, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolValidationFailed,
		Message:   "Tool argument validation failed",
		Details:   fmt.Sprintf("tool: %s, error: %s", toolName, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolExecutionFailedError creates a retryable tool execution error.
func NewToolExecutionFailedError(toolName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolExecutionFailed,
		Message:   "Tool execution error",
		Details:   fmt.Sprintf("tool: %s, error: %s", toolName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIntentParsingFailedError creates a retryable intent parsing error.
func NewIntentParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIntentParsingFailed,
		Message:   "Intent classification error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSentimentParsingFailedError creates a retryable sentiment parsing error.
func NewSentimentParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSentimentParsingFailed,
		Message:   "Sentiment analysis error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM call timeout",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMUnavailableError creates a retryable LLM transport error.
func NewLLMUnavailableError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMUnavailable,
		Message:   "LLM provider unavailable",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMBadResponseError creates a retryable malformed completion error.
func NewLLMBadResponseError(provider, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMBadResponse,
		Message:   "LLM returned an unusable response",
		Details:   fmt.Sprintf("provider: %s, error: %s", provider, details),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Guidance
// ==========================

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeConversationLogFailed,
		ErrCodeLLMUnavailable,
		ErrCodeLLMBadResponse,
		ErrCodeIntentParsingFailed,
		ErrCodeToolExecutionFailed:
		return 3 // Retryable technical errors

	case ErrCodeLLMTimeout,
		ErrCodeCacheUnavailable:
		return 1 // Timeouts and cache are cheap to degrade

	default:
		return 0 // Validation and lookup errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "RESTAURANT"):
		return "LOOKUP"
	case strings.Contains(codeStr, "TEMPLATE"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "CONVERSATION"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "TOOL"):
		return "TOOL"
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
