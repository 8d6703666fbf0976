// Package mock serves a local stand-in for the hosted generate endpoint.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"typechat/internal/logging"
)

// GeneratePath is where the mock generate endpoint is mounted.
const GeneratePath = "/v1/generate"

type Server struct {
	port   int
	delay  time.Duration
	logger *logging.Logger
}

// NewServer creates a mock server. delay is how long each generation takes.
func NewServer(port int, delay time.Duration, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{port: port, delay: delay, logger: logger}
}

// Handler returns the routes served by the mock.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc(GeneratePath, s.generateHandler)
	return mux
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("Mock generate endpoint on http://localhost%s%s\n", addr, GeneratePath)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "prompt is required"})
		return
	}

	s.logger.Debug("mock generate", "model", req.Model, "max_tokens", req.MaxTokens)

	select {
	case <-time.After(s.delay):
	case <-r.Context().Done():
		s.logger.Debug("mock generate cancelled")
		return
	}

	if strings.Contains(strings.ToLower(req.Prompt), "fail") {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal server error"})
		return
	}

	text := limitWords(Reply(req.Prompt), req.MaxTokens)
	writeJSON(w, http.StatusOK, map[string]any{
		"id": uuid.NewString(),
		"generations": []map[string]any{
			// the hosted API pads its output; clients are expected to trim
			{"id": uuid.NewString(), "text": " " + text + "\n"},
		},
		"prompt": req.Prompt,
	})
}

// Reply returns the canned answer for prompt.
func Reply(prompt string) string {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hi there! I'm a **mock** generator.\nAsk me anything."
	case strings.Contains(lower, "list"):
		return "Here you go:\n- **first**\n- second\n- third"
	case strings.Contains(lower, "long"):
		return strings.Repeat("This reply is long on purpose so the typewriter has work to do. ", 8)
	}
	return "You said: " + prompt + "\nThis answer comes from the **mock** endpoint."
}

// limitWords keeps at most n whitespace-separated words; n <= 0 means no limit.
func limitWords(s string, n int) string {
	if n <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
