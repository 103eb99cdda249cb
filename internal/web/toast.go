package web

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Toast is a one-shot notification surfaced on the next rendered page.
// Cascade failures and store errors land here; they are never silently
// dropped.
type Toast struct {
	ID        string
	Message   string
	Kind      string
	CreatedAt time.Time
}

const toastTTL = 30 * time.Second

type toastStore struct {
	mu     sync.Mutex
	byUser map[string][]Toast
}

func newToastStore() *toastStore {
	return &toastStore{byUser: make(map[string][]Toast)}
}

func (s *toastStore) Add(key, kind, message string) {
	if key == "" || message == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[key] = append(s.byUser[key], Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	})
}

// Drain returns and clears the pending toasts for a user, dropping any
// that aged out unseen.
func (s *toastStore) Drain(key string) []Toast {
	if key == "" {
		return nil
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	toasts := s.byUser[key]
	if len(toasts) == 0 {
		return nil
	}
	delete(s.byUser, key)
	out := make([]Toast, 0, len(toasts))
	for _, toast := range toasts {
		if now.Sub(toast.CreatedAt) > toastTTL {
			continue
		}
		out = append(out, toast)
	}
	return out
}

func toastKey(r *http.Request) string {
	if user, ok := CurrentUser(r.Context()); ok && strings.TrimSpace(user.Name) != "" {
		return "user:" + user.Name
	}
	return ""
}

func (s *Server) addToast(r *http.Request, kind, message string) {
	s.toasts.Add(toastKey(r), kind, message)
}
