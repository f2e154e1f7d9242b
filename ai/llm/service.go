// Package llm wraps the remote generative model behind a uniform gateway.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when no model credential is available.
var ErrNotConfigured = errors.New("llm: api key not configured")

// Service is the model gateway interface. Generate sends the system
// instructions together with a delimited content section and returns the raw
// model text. It errors only on infrastructure failure (missing credential,
// network, rate limit, malformed response); whatever text the model produced
// is returned as-is for the caller to make sense of.
type Service interface {
	Generate(ctx context.Context, systemPrompt, content string) (string, error)
}

// Config represents model gateway configuration.
type Config struct {
	Provider    string  // openai, deepseek, openrouter, ollama, or any OpenAI-compatible endpoint
	Model       string  // gpt-4o-mini, deepseek-chat, ...
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 256
	Temperature float32 // default: 0.2
	Timeout     int     // request timeout in seconds (default: 30)
	MaxRate     float64 // max remote calls per second (default: 5)
}

type service struct {
	client      *openai.Client
	limiter     *rate.Limiter
	model       string
	provider    string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewService creates a new model gateway.
func NewService(cfg *Config) (Service, error) {
	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return nil, ErrNotConfigured
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.HTTPClient = newHTTPClient()

	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch cfg.Provider {
		case "deepseek":
			baseURL = "https://api.deepseek.com"
		case "openrouter":
			baseURL = "https://openrouter.ai/api/v1"
		case "ollama":
			baseURL = "http://localhost:11434/v1"
		}
	}
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30
	}
	maxRate := cfg.MaxRate
	if maxRate <= 0 {
		maxRate = 5
	}

	return &service{
		client:      openai.NewClientWithConfig(clientConfig),
		limiter:     rate.NewLimiter(rate.Limit(maxRate), int(maxRate)+1),
		model:       cfg.Model,
		provider:    cfg.Provider,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     time.Duration(timeout) * time.Second,
	}, nil
}

func (s *service) Generate(ctx context.Context, systemPrompt, content string) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limit wait: %w", err)
	}

	slog.Debug("llm: generate request",
		"provider", s.provider,
		"model", s.model,
		"content_length", len(content),
	)

	startTime := time.Now()

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: delimitContent(content)},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("llm: generate request failed", "provider", s.provider, "error", err)
		return "", fmt.Errorf("llm generate failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("llm: empty response", "provider", s.provider, "model", s.model)
		return "", fmt.Errorf("empty response from model")
	}

	slog.Debug("llm: generate response received",
		"content_length", len(resp.Choices[0].Message.Content),
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	return resp.Choices[0].Message.Content, nil
}

// delimitContent wraps the note content in explicit markers so the model can
// never confuse instructions with user content.
func delimitContent(content string) string {
	return "CONTENT START\n" + content + "\nCONTENT END"
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
