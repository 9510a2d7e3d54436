package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"codeberg.org/snonux/glossa/internal/compose"
	"codeberg.org/snonux/glossa/internal/dictionary"
)

// SpeechErrorMessage is the message sent with every speech drafting failure.
const SpeechErrorMessage = compose.ErrorMessage

// RawDictionary returns provider payloads without decoding them.
type RawDictionary interface {
	LookupRaw(ctx context.Context, req dictionary.Request) ([]byte, error)
}

// Composer drafts speeches.
type Composer interface {
	Compose(ctx context.Context, req compose.Request) (*compose.Draft, error)
}

// ErrorResponse is the translate error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`
	Debug     string `json:"debug,omitempty"`
}

// SpeechErrorResponse is the generate-speech error envelope.
type SpeechErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Server handles the proxy endpoints.
type Server struct {
	dict     RawDictionary
	composer Composer
	log      *slog.Logger
	version  string
}

// NewServer creates a Server. composer may be nil, in which case speech
// drafting answers with an error.
func NewServer(dict RawDictionary, composer Composer, version string, logger *slog.Logger) *Server {
	return &Server{
		dict:     dict,
		composer: composer,
		log:      logger.With("component", "proxy"),
		version:  version,
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/translate", s.Translate)
	mux.HandleFunc("/api/generate-speech", s.GenerateSpeech)
	mux.HandleFunc("GET /healthz", s.Health)

	return Chain(
		RequestID,
		Logger(s.log),
		Recovery(s.log),
	)(mux)
}

// Translate forwards {text, from} to the dictionary provider.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
		return
	}

	var req dictionary.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.translateFailed(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	s.log.InfoContext(r.Context(), "translate request", slog.String("text", req.Text), slog.String("from", req.From))

	body, err := s.dict.LookupRaw(r.Context(), req)
	if err != nil {
		s.translateFailed(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

func (s *Server) translateFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "translate failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:     err.Error(),
		ErrorCode: "500",
		Debug:     debugCause(err),
	})
}

// debugCause returns the innermost wrapped error, or "" when err wraps nothing.
func debugCause(err error) string {
	cause := err
	for next := errors.Unwrap(cause); next != nil; next = errors.Unwrap(cause) {
		cause = next
	}
	if cause == err {
		return ""
	}
	return cause.Error()
}

// GenerateSpeech drafts a speech for {topic, language, style, length}.
func (s *Server) GenerateSpeech(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, SpeechErrorResponse{Message: "Method not allowed"})
		return
	}

	var req compose.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SpeechErrorResponse{Message: SpeechErrorMessage, Error: "invalid request body"})
		return
	}

	if s.composer == nil {
		writeJSON(w, http.StatusInternalServerError, SpeechErrorResponse{Message: SpeechErrorMessage, Error: "speech drafting is not configured"})
		return
	}

	draft, err := s.composer.Compose(r.Context(), req)
	if errors.Is(err, compose.ErrEmptyTopic) {
		writeJSON(w, http.StatusBadRequest, SpeechErrorResponse{Message: SpeechErrorMessage, Error: err.Error()})
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "generate speech failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, SpeechErrorResponse{Message: SpeechErrorMessage, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// HealthResponse is the JSON response for /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health is the liveness probe. Always returns 200.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   s.version,
		Timestamp: time.Now(),
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
