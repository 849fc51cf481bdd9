package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pagepal-backend/internal/config"
	"pagepal-backend/internal/relay"
	"pagepal-backend/internal/types"
)

const maxBodyBytes = 1 << 20

type Server struct {
	router *chi.Mux
	svc    *relay.Service
	logger *zap.Logger
}

func NewServer(cfg config.Config, svc *relay.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	s := &Server{
		router: r,
		svc:    svc,
		logger: logger.Named("http"),
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.recoverInternal)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post(relay.OpSummarise, s.handleSummarise)
	s.router.Post(relay.OpInterpret, s.handleInterpret)
	s.router.Post(relay.OpAsk, s.handleAsk)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.HealthResponse{OK: true, KeyLoaded: s.svc.KeyLoaded()})
}

func (s *Server) handleSummarise(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[types.SummariseRequest](r)
	resp, err := s.svc.Summarise(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[types.InterpretRequest](r)
	resp, err := s.svc.Interpret(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[types.AskRequest](r)
	resp, err := s.svc.Ask(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// decodeBody reads a JSON object from the request. An empty, oversized or
// malformed body decodes to the zero value so the caller reports the missing
// field instead.
func decodeBody[T any](r *http.Request) T {
	var v T
	if r.Body == nil {
		return v
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&v); err != nil {
		var zero T
		return zero
	}
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError converts the relay error taxonomy into a status code and JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *relay.ValidationError
		ce *relay.ConfigError
		ue *relay.UpstreamError
		ie *relay.InternalError
	)
	switch {
	case errors.As(err, &ve):
		s.writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: ve.Message})
		return
	case errors.As(err, &ce):
		s.logger.Error("configuration error", zap.String("path", r.URL.Path), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: ce.Message})
		return
	case errors.As(err, &ue):
		s.logger.Warn("upstream error",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("upstream_status", ue.StatusCode),
			zap.Error(err),
		)
		s.writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{
			Error:      ue.Message,
			StatusCode: ue.StatusCode,
			Detail:     ue.Detail,
			RawText:    ue.RawText,
			Preview:    ue.Preview,
		})
		return
	}
	if !errors.As(err, &ie) {
		ie = relay.NewInternalError(r.URL.Path, err.Error(), nil)
	}
	s.logger.Error("internal error",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("message", ie.Message),
	)
	s.writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{
		Error:     ie.Error(),
		Message:   ie.Message,
		Traceback: ie.Trace,
	})
}

// recoverInternal turns a panic in a handler into an InternalError body.
func (s *Server) recoverInternal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.writeError(w, r, relay.NewInternalError(r.URL.Path, fmt.Sprint(rec), debug.Stack()))
		}()
		next.ServeHTTP(w, r)
	})
}
