package app

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/speakcoach/speakcoach/internal/eventlog"
	"github.com/speakcoach/speakcoach/internal/httpapi"
	"github.com/speakcoach/speakcoach/internal/llm"
)

type App struct {
	cfg        Config
	logger     *log.Logger
	llmClient  llm.Client
	eventLog   *eventlog.Logger
	httpClient *http.Client // Shared HTTP client with connection pooling for the prompt service
}

func New(cfg Config, logger *log.Logger) (*App, error) {
	if cfg.OpenAIAPIKey == "" {
		// Not fatal: the server still serves topics and sessions, but
		// every prompt generation will fail downstream.
		logger.Printf("warning: OPENAI_API_KEY is not set, prompt generation will fail")
	}

	// Shared HTTP client with connection pooling for the prompt service.
	// Keeps TCP connections alive to reduce latency for repeated calls.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10, // OpenAI is single host
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	llmClient := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.PromptModel,
		MaxTokens:  cfg.PromptMaxTokens,
		BaseURL:    cfg.OpenAIBaseURL,
		HTTPClient: httpClient,
	})

	return &App{
		cfg:        cfg,
		logger:     logger,
		llmClient:  llmClient,
		eventLog:   eventlog.New(logger),
		httpClient: httpClient,
	}, nil
}

func (a *App) Router(sessions *httpapi.SessionRegistry) http.Handler {
	routerCfg := httpapi.RouterConfig{
		PublicBaseURL: a.cfg.PublicBaseURL,
	}
	return httpapi.NewRouter(routerCfg, a.logger, a.llmClient, a.eventLog, sessions)
}

func (a *App) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}
