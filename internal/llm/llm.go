package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pagepal-backend/internal/config"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one turn of the conversation sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single model call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
}

// Reply carries the extracted text and the raw upstream body it came from.
type Reply struct {
	Text string
	Body []byte
}

// Completer performs exactly one outbound model call per invocation.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
}

// ErrMissingAPIKey is returned before any network activity when no credential
// was configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set on server")

// ErrBuildRequest marks failures that happen before anything is sent.
var ErrBuildRequest = errors.New("build request")

// StatusError is a non-200 answer from the model API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai status %d: %s", e.StatusCode, e.Body)
}

// DecodeError means the model API answered 200 with a body that is not the
// expected JSON document.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string { return "openai returned non-JSON: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// New returns the Completer selected by cfg.APIStyle.
func New(cfg config.Config, logger *zap.Logger) Completer {
	if cfg.APIStyle == config.APIStyleChat {
		return NewChatClient(cfg, logger)
	}
	return NewResponsesClient(cfg, logger)
}

// SystemUser builds the two-message conversation every endpoint uses.
func SystemUser(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
