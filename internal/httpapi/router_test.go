package httpapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/speakcoach/speakcoach/internal/eventlog"
)

func TestWsURLFromPublicBase(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080"},
		{"https://coach.example.com", "wss://coach.example.com"},
		{"coach.example.com", "wss://coach.example.com"},
	}

	for _, tt := range tests {
		if got := wsURLFromPublicBase(tt.base); got != tt.want {
			t.Errorf("wsURLFromPublicBase(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestHandleClientConfig(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	handler := NewRouter(RouterConfig{PublicBaseURL: "https://coach.example.com"}, logger, &fakeLLM{}, eventlog.New(logger), NewSessionRegistry())

	req := httptest.NewRequest(http.MethodGet, "/client-config", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		SessionWSURL string `json:"session_ws_url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionWSURL != "wss://coach.example.com/session" {
		t.Errorf("session_ws_url = %q, want wss URL derived from the public base", resp.SessionWSURL)
	}
}
