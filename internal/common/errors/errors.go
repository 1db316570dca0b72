// Package errors provides standardized error handling for the copilot API and job workers.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeEmptyQuestion   ErrorCode = "EMPTY_QUESTION"
	ErrCodeResponsePending ErrorCode = "RESPONSE_PENDING"
	ErrCodeSessionClosed   ErrorCode = "SESSION_CLOSED"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSurfaceNotFound ErrorCode = "SURFACE_NOT_FOUND"
	ErrCodeTooManySessions ErrorCode = "TOO_MANY_SESSIONS"

	ErrCodeHistoryIndexOutOfRange   ErrorCode = "HISTORY_INDEX_OUT_OF_RANGE"
	ErrCodeResponseValidationFailed ErrorCode = "RESPONSE_VALIDATION_FAILED"

	ErrCodeTranscriptWriteFailed    ErrorCode = "TRANSCRIPT_WRITE_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"

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

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid request input", details, false)
}

// NewEmptyQuestionError creates a non-retryable error for blank questions.
func NewEmptyQuestionError() *StandardError {
	return newError(ErrCodeEmptyQuestion, "Question must not be empty", "", false)
}

// NewResponsePendingError is returned when a session is still answering a previous question.
func NewResponsePendingError(sessionID string) *StandardError {
	return newError(ErrCodeResponsePending, "A response is still being prepared", fmt.Sprintf("sessionId: %s", sessionID), true)
}

func NewSessionClosedError(sessionID string) *StandardError {
	return newError(ErrCodeSessionClosed, "Session has been closed", fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found", fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewTooManySessionsError(limit int) *StandardError {
	return newError(ErrCodeTooManySessions, "Session limit reached", fmt.Sprintf("maxSessions: %d", limit), true)
}

func NewSurfaceNotFoundError(surfaceID string) *StandardError {
	return newError(ErrCodeSurfaceNotFound, "Dashboard surface not found", fmt.Sprintf("surfaceId: %s", surfaceID), false)
}

// NewHistoryIndexOutOfRangeError is only surfaced by the HTTP API; sessions ignore bad indexes.
func NewHistoryIndexOutOfRangeError(index, length int) *StandardError {
	return newError(ErrCodeHistoryIndexOutOfRange, "History index out of range",
		fmt.Sprintf("index: %d, length: %d", index, length), false)
}

// NewResponseValidationFailedError creates a non-retryable schema error.
func NewResponseValidationFailedError(details string) *StandardError {
	return newError(ErrCodeResponseValidationFailed, "Response failed schema validation", details, false)
}

// NewTranscriptWriteFailedError creates a retryable transcript sink error.
func NewTranscriptWriteFailedError(sink string, err error) *StandardError {
	return newError(ErrCodeTranscriptWriteFailed, "Transcript write failed",
		fmt.Sprintf("sink: %s, error: %s", sink, err.Error()), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Mapping & Retry Policy
// ==========================

// BPMNErrorMapping maps internal codes to the BPMN error codes modelled in the process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeEmptyQuestion:            "EMPTY_QUESTION",
	ErrCodeResponsePending:          "RESPONSE_PENDING",
	ErrCodeSessionClosed:            "SESSION_CLOSED",
	ErrCodeSessionNotFound:          "SESSION_NOT_FOUND",
	ErrCodeSurfaceNotFound:          "SURFACE_NOT_FOUND",
	ErrCodeTooManySessions:          "TOO_MANY_SESSIONS",
	ErrCodeHistoryIndexOutOfRange:   "HISTORY_INDEX_OUT_OF_RANGE",
	ErrCodeResponseValidationFailed: "RESPONSE_VALIDATION_FAILED",
	ErrCodeTranscriptWriteFailed:    "TRANSCRIPT_WRITE_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeTranscriptWriteFailed,
		ErrCodeDatabaseConnectionFailed:
		return 3

	case ErrCodeResponsePending:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeEmptyQuestion, ErrCodeHistoryIndexOutOfRange:
		return http.StatusBadRequest
	case ErrCodeSessionNotFound, ErrCodeSurfaceNotFound:
		return http.StatusNotFound
	case ErrCodeResponsePending:
		return http.StatusConflict
	case ErrCodeTooManySessions:
		return http.StatusTooManyRequests
	case ErrCodeSessionClosed:
		return http.StatusGone
	case ErrCodeDatabaseConnectionFailed, ErrCodeTranscriptWriteFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "PENDING"):
		return "SESSION"
	case strings.Contains(codeStr, "SURFACE"):
		return "SURFACE"
	case strings.Contains(codeStr, "TRANSCRIPT") || strings.Contains(codeStr, "DATABASE"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.Contains(codeStr, "EMPTY") || strings.Contains(codeStr, "RANGE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// Normalize returns err as a StandardError, wrapping unknown errors as internal.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
