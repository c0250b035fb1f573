package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		client := NewOpenAIClient(OpenAIConfig{
			APIKey: "test-key",
		})

		if client.model != "gpt-4o-mini" {
			t.Errorf("model = %q, want %q", client.model, "gpt-4o-mini")
		}
		if client.maxTokens != 100 {
			t.Errorf("maxTokens = %d, want 100", client.maxTokens)
		}
		if client.baseURL != defaultOpenAIBaseURL {
			t.Errorf("baseURL = %q, want %q", client.baseURL, defaultOpenAIBaseURL)
		}
		if client.apiKey != "test-key" {
			t.Errorf("apiKey = %q, want %q", client.apiKey, "test-key")
		}
	})

	t.Run("custom model and cap", func(t *testing.T) {
		client := NewOpenAIClient(OpenAIConfig{
			APIKey:    "test-key",
			Model:     "gpt-4o",
			MaxTokens: 50,
		})

		if client.model != "gpt-4o" {
			t.Errorf("model = %q, want %q", client.model, "gpt-4o")
		}
		if client.maxTokens != 50 {
			t.Errorf("maxTokens = %d, want 50", client.maxTokens)
		}
	})

	t.Run("trailing slash trimmed from base URL", func(t *testing.T) {
		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: "http://localhost:9999/v1/",
		})

		if client.baseURL != "http://localhost:9999/v1" {
			t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
		}
	})
}

// newFakeOpenAI starts a server that records the last chat request and
// answers with the given JSON body.
func newFakeOpenAI(t *testing.T, status int, responseBody string) (*httptest.Server, *chatRequest) {
	t.Helper()

	var lastReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("request path = %q, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", auth, "Bearer test-key")
		}
		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			t.Errorf("failed to decode chat request: %v", err)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)

	return srv, &lastReq
}

func completionBody(content string) string {
	quoted, _ := json.Marshal(content)
	return `{"choices":[{"message":{"content":` + string(quoted) + `}}]}`
}

func TestGeneratePrompt_Success(t *testing.T) {
	srv, lastReq := newFakeOpenAI(t, http.StatusOK, completionBody("  Can you elaborate on a specific project?  "))

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})

	got, err := client.GeneratePrompt(context.Background(), "I have five years of experience", "job-interview")
	if err != nil {
		t.Fatalf("GeneratePrompt() error = %v", err)
	}
	if got != "Can you elaborate on a specific project?" {
		t.Errorf("GeneratePrompt() = %q, want trimmed completion", got)
	}

	// Verify the outbound request shape.
	if lastReq.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q, want gpt-4o-mini", lastReq.Model)
	}
	if lastReq.MaxTokens != 100 {
		t.Errorf("request max_tokens = %d, want 100", lastReq.MaxTokens)
	}
	if len(lastReq.Messages) != 2 {
		t.Fatalf("request has %d messages, want 2", len(lastReq.Messages))
	}
	if lastReq.Messages[0].Role != "system" || lastReq.Messages[0].Content != SystemPromptCoach {
		t.Error("first message should carry the coach system prompt")
	}
	user := lastReq.Messages[1]
	if user.Role != "user" {
		t.Errorf("second message role = %q, want user", user.Role)
	}
	if !strings.Contains(user.Content, "I have five years of experience") {
		t.Error("user message should embed the transcription verbatim")
	}
	if !strings.Contains(user.Content, "job-interview") {
		t.Error("user message should embed the topic verbatim")
	}
}

func TestGeneratePrompt_EmptyCompletionFallsBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty content", completionBody("")},
		{"whitespace content", completionBody("   \n ")},
		{"no choices", `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newFakeOpenAI(t, http.StatusOK, tt.body)
			client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})

			got, err := client.GeneratePrompt(context.Background(), "hello", "debate")
			if err != nil {
				t.Fatalf("GeneratePrompt() error = %v", err)
			}
			if got != FallbackPrompt {
				t.Errorf("GeneratePrompt() = %q, want %q", got, FallbackPrompt)
			}
		})
	}
}

func TestGeneratePrompt_APIError(t *testing.T) {
	srv, _ := newFakeOpenAI(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.GeneratePrompt(context.Background(), "hello", "debate")
	if err == nil {
		t.Fatal("GeneratePrompt() should fail on non-200 response")
	}
	if !strings.Contains(err.Error(), "OpenAI API error") {
		t.Errorf("error = %v, want OpenAI API error", err)
	}
}

func TestGeneratePrompt_MalformedResponse(t *testing.T) {
	srv, _ := newFakeOpenAI(t, http.StatusOK, `not json`)
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.GeneratePrompt(context.Background(), "hello", "debate")
	if err == nil {
		t.Fatal("GeneratePrompt() should fail on malformed response body")
	}
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt(`I said "hi"`, "storytelling")
	if !strings.Contains(got, `I said \"hi\"`) && !strings.Contains(got, `I said "hi"`) {
		t.Errorf("UserPrompt() = %q, should embed the transcription", got)
	}
	if !strings.Contains(got, "storytelling") {
		t.Errorf("UserPrompt() = %q, should embed the topic", got)
	}
}
