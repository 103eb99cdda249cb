package web

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// The assistant endpoint proxies a prompt to an OpenAI-compatible chat
// completion API. The key never reaches the browser; the server holds it
// and forwards only the answer text.

type assistantRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

var assistantClient = &http.Client{Timeout: 60 * time.Second}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg.AssistantURL == "" {
		http.Error(w, "assistant not configured", http.StatusServiceUnavailable)
		return
	}

	var req assistantRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "empty prompt", http.StatusBadRequest)
		return
	}

	messages := []chatMessage{
		{Role: "system", Content: "You help the user work with their notes. Answer concisely in markdown."},
	}
	if req.Context != "" {
		messages = append(messages, chatMessage{Role: "user", Content: "Current note:\n\n" + req.Context})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{Model: s.cfg.AssistantModel, Messages: messages})
	if err != nil {
		s.internalError(w, "encode assistant request", err)
		return
	}
	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		strings.TrimRight(s.cfg.AssistantURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		s.internalError(w, "build assistant request", err)
		return
	}
	upstream.Header.Set("Content-Type", "application/json")
	if s.cfg.AssistantKey != "" {
		upstream.Header.Set("Authorization", "Bearer "+s.cfg.AssistantKey)
	}

	resp, err := assistantClient.Do(upstream)
	if err != nil {
		slog.Error("assistant upstream failed", "err", err)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Error("assistant upstream status", "status", resp.StatusCode)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	var chat chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&chat); err != nil {
		slog.Error("decode assistant response failed", "err", err)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}
	reply := ""
	if len(chat.Choices) > 0 {
		reply = chat.Choices[0].Message.Content
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(assistantResponse{Reply: reply}); err != nil {
		slog.Error("encode assistant reply failed", "err", err)
	}
}
