package relay

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pagepal-backend/internal/config"
	"pagepal-backend/internal/llm"
	"pagepal-backend/internal/prompts"
	"pagepal-backend/internal/types"
)

const (
	OpSummarise = "/summarise"
	OpInterpret = "/interpret"
	OpAsk       = "/ask"
)

// Service turns extension requests into one model call each and shapes the
// reply. It holds no per-request state and is safe for concurrent use.
type Service struct {
	completer      llm.Completer
	prompts        prompts.Set
	model          string
	timeout        time.Duration
	maxInputChars  int
	strictCommands bool
	keyLoaded      bool
	logger         *zap.Logger
}

func NewService(cfg config.Config, completer llm.Completer, set prompts.Set, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		completer:      completer,
		prompts:        set,
		model:          cfg.Model,
		timeout:        cfg.Timeout,
		maxInputChars:  cfg.MaxInputChars,
		strictCommands: cfg.StrictCommands,
		keyLoaded:      cfg.KeyLoaded(),
		logger:         logger.Named("relay"),
	}
}

// KeyLoaded reports whether model-dependent operations can run.
func (s *Service) KeyLoaded() bool { return s.keyLoaded }

// Summarise asks for a TL;DR, bullets and key actions for page text.
func (s *Service) Summarise(ctx context.Context, req types.SummariseRequest) (*types.SummariseResponse, error) {
	text := Clamp(req.Text, s.maxInputChars)
	if text == "" {
		return nil, &ValidationError{Message: "Missing text"}
	}
	reply, err := s.call(ctx, OpSummarise, s.prompts.Summarise, text)
	if err != nil {
		return nil, err
	}
	if reply.Text == "" {
		return nil, noOutputError(reply.Body)
	}
	tldr, bullets, actions := ParseSummary(reply.Text)
	return &types.SummariseResponse{
		TLDR:       tldr,
		Bullets:    bullets,
		KeyActions: actions,
		Raw:        reply.Text,
	}, nil
}

// Interpret turns a shaky user command into one extension command.
func (s *Service) Interpret(ctx context.Context, req types.InterpretRequest) (*types.InterpretResponse, error) {
	userReq := strings.TrimSpace(req.Request)
	if userReq == "" {
		return nil, &ValidationError{Message: "Missing request"}
	}
	reply, err := s.call(ctx, OpInterpret, s.prompts.Interpret, userReq)
	if err != nil {
		return nil, err
	}
	line := firstLine(reply.Text)
	if line == "" {
		return &types.InterpretResponse{Command: DefaultCommand}, nil
	}
	if !s.strictCommands {
		return &types.InterpretResponse{Command: line}, nil
	}
	cmd, ok := NormalizeCommand(line)
	if !ok {
		s.logger.Info("model reply outside command vocabulary",
			zap.String("reply", line),
			zap.String("fallback", cmd),
		)
	}
	return &types.InterpretResponse{Command: cmd}, nil
}

// Ask answers a free-form question, optionally grounded on page text.
func (s *Service) Ask(ctx context.Context, req types.AskRequest) (*types.AskResponse, error) {
	input := strings.TrimSpace(req.Input)
	pageText := Clamp(req.PageText, s.maxInputChars)
	if input == "" {
		return nil, &ValidationError{Message: "Missing input"}
	}
	content := input
	if pageText != "" {
		content += "\n\nPAGE_TEXT:\n" + pageText
	}
	reply, err := s.call(ctx, OpAsk, s.prompts.Ask, content)
	if err != nil {
		return nil, err
	}
	if reply.Text == "" {
		return nil, noOutputError(reply.Body)
	}
	return &types.AskResponse{Answer: reply.Text}, nil
}

func (s *Service) call(ctx context.Context, op string, p prompts.Prompt, user string) (*llm.Reply, error) {
	if !s.keyLoaded {
		return nil, &ConfigError{Message: llm.ErrMissingAPIKey.Error()}
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reply, err := s.completer.Complete(ctx, llm.Request{
		Model:       s.model,
		Messages:    llm.SystemUser(p.System, user),
		Temperature: p.Style.Temperature,
	})
	if err != nil {
		s.logger.Warn("model call failed", zap.String("op", op), zap.Error(err))
		return nil, upstreamError(op, err)
	}
	return reply, nil
}
