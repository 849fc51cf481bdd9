package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"pagepal-backend/internal/config"
)

// ChatClient uses the Chat Completions API through go-openai. It is selected
// with OPENAI_API_STYLE=chat for gateways that do not serve /responses.
type ChatClient struct {
	client    *openai.Client
	keyLoaded bool
	logger    *zap.Logger
}

func NewChatClient(cfg config.Config, logger *zap.Logger) *ChatClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	oc := openai.DefaultConfig(cfg.OpenAIAPIKey)
	oc.BaseURL = cfg.OpenAIBaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &ChatClient{
		client:    openai.NewClientWithConfig(oc),
		keyLoaded: cfg.KeyLoaded(),
		logger:    logger.Named("chat"),
	}
}

func (c *ChatClient) Complete(ctx context.Context, req Request) (*Reply, error) {
	if !c.keyLoaded {
		return nil, ErrMissingAPIKey
	}
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
	})
	c.logger.Debug("chat call",
		zap.String("model", req.Model),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, &StatusError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	body, _ := json.Marshal(resp)
	var text string
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	return &Reply{Text: text, Body: body}, nil
}
