package relay

import (
	"errors"
	"fmt"
	"runtime/debug"

	"pagepal-backend/internal/llm"
)

const (
	// TraceLimit caps the diagnostic trace returned with an InternalError.
	TraceLimit = 4000
	// PreviewLimit caps the upstream body echoed when no text could be extracted.
	PreviewLimit = 1500
)

// ValidationError is a missing or empty required field (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigError means the server cannot reach the model at all (500).
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// UpstreamError is a failed or unusable model API call (500).
type UpstreamError struct {
	Message    string
	StatusCode int
	Detail     string
	RawText    string
	Preview    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// InternalError wraps anything else that went wrong while serving Op (500).
type InternalError struct {
	Op      string
	Message string
	Trace   string
}

func (e *InternalError) Error() string { return "Internal exception in " + e.Op }

// NewInternalError records the current goroutine stack as the trace.
func NewInternalError(op, message string, stack []byte) *InternalError {
	if stack == nil {
		stack = debug.Stack()
	}
	return &InternalError{
		Op:      op,
		Message: message,
		Trace:   truncate(string(stack), TraceLimit),
	}
}

// upstreamError maps a Completer failure onto the error taxonomy.
func upstreamError(op string, err error) error {
	var se *llm.StatusError
	var de *llm.DecodeError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return &ConfigError{Message: err.Error()}
	case errors.Is(err, llm.ErrBuildRequest):
		return NewInternalError(op, err.Error(), nil)
	case errors.As(err, &se):
		return &UpstreamError{Message: "OpenAI error", StatusCode: se.StatusCode, Detail: se.Body}
	case errors.As(err, &de):
		return &UpstreamError{Message: "OpenAI returned non-JSON", RawText: de.Body}
	default:
		return &UpstreamError{Message: "OpenAI request failed", Detail: err.Error()}
	}
}

func noOutputError(body []byte) *UpstreamError {
	return &UpstreamError{
		Message: "No output_text found in OpenAI response",
		Preview: truncate(string(body), PreviewLimit),
	}
}
