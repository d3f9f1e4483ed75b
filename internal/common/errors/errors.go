// Package errors provides standardized error codes for the lookup service
// and their mapping to BPMN errors for the Zeebe workers.
package errors

import (
	"errors"
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
	ErrCodeInvalidCode      ErrorCode = "INVALID_CODE"
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeStoreReadFailed  ErrorCode = "STORE_READ_FAILED"

	ErrCodeMessageSendFailed ErrorCode = "MESSAGE_SEND_FAILED"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeConfigInvalid     ErrorCode = "CONFIG_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape shared by the bot, the HTTP API and the workers.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError is what a Zeebe job throws when a lookup fails for good.
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
// 2. Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidCodeError(text, reason string) *StandardError {
	e := newError(ErrCodeInvalidCode, "Unrecognized unit or plate code", reason, false, nil)
	e.Metadata = map[string]interface{}{"text": text}
	return e
}

// NewStoreUnavailableError reports that the record store could not be read at all.
func NewStoreUnavailableError(source string, err error) *StandardError {
	e := newError(ErrCodeStoreUnavailable, "Record store unavailable",
		fmt.Sprintf("source: %s, error: %v", source, err), true, err)
	e.Metadata = map[string]interface{}{"source": source}
	return e
}

// NewStoreReadFailedError reports a store that answered with content that
// could not be turned into rows.
func NewStoreReadFailedError(source string, err error) *StandardError {
	e := newError(ErrCodeStoreReadFailed, "Record store returned unreadable data",
		fmt.Sprintf("source: %s, error: %v", source, err), true, err)
	e.Metadata = map[string]interface{}{"source": source}
	return e
}

func NewMessageSendFailedError(chatID int64, err error) *StandardError {
	return newError(ErrCodeMessageSendFailed, "Chat reply could not be delivered",
		fmt.Sprintf("chatId: %d, error: %v", chatID, err), true, err)
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Request validation failed", details, false, nil)
}

// NewConfigInvalidError keeps the cause in the message; it is what an
// operator sees when the service refuses to start.
func NewConfigInvalidError(err error) *StandardError {
	return newError(ErrCodeConfigInvalid, "Configuration is invalid: "+err.Error(), "", false, err)
}

// ==========================
// 3. Inspection helpers
// ==========================

// AsStandard returns the first StandardError in err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// ==========================
// 4. BPMN mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidCode:       "INVALID_CODE",
	ErrCodeStoreUnavailable:  "STORE_UNAVAILABLE",
	ErrCodeStoreReadFailed:   "STORE_READ_FAILED",
	ErrCodeMessageSendFailed: "MESSAGE_SEND_FAILED",
	ErrCodeInvalidRequest:    "INVALID_REQUEST",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreUnavailable, ErrCodeMessageSendFailed:
		return 3
	case ErrCodeStoreReadFailed:
		return 1
	default:
		return 0 // business errors
	}
}

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

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "STORE"):
		return "STORE"
	case code == ErrCodeConfigInvalid:
		return "CONFIG"
	case strings.Contains(codeStr, "MESSAGE"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
