package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"pagepal-backend/internal/config"
)

const maxResponseBytes = 4 << 20

// ResponsesClient talks to the OpenAI Responses API over plain HTTP.
type ResponsesClient struct {
	endpoint   string
	keyLoaded  bool
	httpClient *http.Client
	logger     *zap.Logger
}

func NewResponsesClient(cfg config.Config, logger *zap.Logger) *ResponsesClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := &http.Client{Timeout: cfg.Timeout}
	// The oauth2 transport attaches "Authorization: Bearer <key>" to every call.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.OpenAIAPIKey,
		TokenType:   "Bearer",
	}))
	hc.Timeout = cfg.Timeout
	return &ResponsesClient{
		endpoint:   cfg.OpenAIBaseURL + "/responses",
		keyLoaded:  cfg.KeyLoaded(),
		httpClient: hc,
		logger:     logger.Named("responses"),
	}
}

type responsesRequest struct {
	Model       string    `json:"model"`
	Input       []Message `json:"input"`
	Temperature float32   `json:"temperature"`
}

type responsesPayload struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (c *ResponsesClient) Complete(ctx context.Context, req Request) (*Reply, error) {
	if !c.keyLoaded {
		return nil, ErrMissingAPIKey
	}
	payload, err := json.Marshal(responsesRequest{
		Model:       req.Model,
		Input:       req.Messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode responses request: %v", ErrBuildRequest, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read openai response: %w", err)
	}
	c.logger.Debug("responses call",
		zap.String("model", req.Model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed responsesPayload
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}
	return &Reply{Text: outputText(parsed), Body: body}, nil
}

// outputText concatenates every output_text fragment of every message item.
func outputText(p responsesPayload) string {
	var b strings.Builder
	for _, item := range p.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				b.WriteString(c.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
