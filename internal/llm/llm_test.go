package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pagepal-backend/internal/config"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: baseURL,
		Timeout:       2 * time.Second,
	}
}

func TestResponsesClientComplete(t *testing.T) {
	bodies := make(chan responsesRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var got responsesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		bodies <- got
		_, _ = w.Write([]byte(`{
			"output": [
				{"type": "reasoning", "content": [{"type": "output_text", "text": "ignored"}]},
				{"type": "message", "role": "assistant", "content": [
					{"type": "output_text", "text": "  TL;DR: hi\n"},
					{"type": "refusal", "text": "nope"},
					{"type": "output_text", "text": "• a  "}
				]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewResponsesClient(testConfig(srv.URL+"/v1"), zaptest.NewLogger(t))
	reply, err := c.Complete(context.Background(), Request{
		Model:       "gpt-4.1-mini",
		Messages:    SystemUser("sys", "user text"),
		Temperature: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "TL;DR: hi\n• a", reply.Text)
	assert.NotEmpty(t, reply.Body)
	got := <-bodies
	assert.Equal(t, "gpt-4.1-mini", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-6)
	assert.Equal(t, []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "user text"}}, got.Input)
}

func TestResponsesClientNoOutputText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output": []}`))
	}))
	defer srv.Close()

	reply, err := NewResponsesClient(testConfig(srv.URL), nil).Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "", reply.Text)
	assert.JSONEq(t, `{"output": []}`, string(reply.Body))
}

func TestResponsesClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewResponsesClient(testConfig(srv.URL), nil).Complete(context.Background(), Request{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Body, "slow down")
}

func TestResponsesClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewResponsesClient(testConfig(srv.URL), nil).Complete(context.Background(), Request{})
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "<html>gateway</html>", de.Body)
}

func TestResponsesClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	_, err := NewResponsesClient(cfg, nil).Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai request failed")
}

func TestMissingKeySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.OpenAIAPIKey = ""
	for _, style := range []string{config.APIStyleResponses, config.APIStyleChat} {
		cfg.APIStyle = style
		_, err := New(cfg, nil).Complete(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrMissingAPIKey, style)
	}
	assert.Zero(t, calls.Load())
}

func TestNewSelectsClient(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	assert.IsType(t, &ResponsesClient{}, New(cfg, nil))
	cfg.APIStyle = config.APIStyleChat
	assert.IsType(t, &ChatClient{}, New(cfg, nil))
}

func TestChatClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4.1-mini", body.Model)
		assert.Len(t, body.Messages, 2)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" scroll down \n"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/v1")
	reply, err := NewChatClient(cfg, zaptest.NewLogger(t)).Complete(context.Background(), Request{
		Model:    "gpt-4.1-mini",
		Messages: SystemUser("sys", "scrol dwn"),
	})
	require.NoError(t, err)
	assert.Equal(t, "scroll down", reply.Text)
	assert.NotEmpty(t, reply.Body)
}

func TestChatClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewChatClient(testConfig(srv.URL), nil).Complete(context.Background(), Request{Model: "m"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "bad key", se.Body)
}

func TestResponsesClientBuildError(t *testing.T) {
	_, err := NewResponsesClient(testConfig("::not a url"), nil).Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrBuildRequest)
}
