// Package provider abstracts the language-model backends used for
// translation behind a single Invoke call. Two backends are supported:
// OpenAI-compatible chat completion APIs (OpenAI itself, Groq, Ollama and
// other services exposing the same surface via a custom base URL) and
// Google Gemini.
//
// The rest of the program treats every backend failure uniformly as
// "translation unavailable for this unit of work"; retry, timeout and
// circuit-breaking policy all live on this side of the boundary.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request is one translation round trip: a system instruction, the user
// text to translate, and the sampling limits.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Provider is a black-box text completion backend.
type Provider interface {
	// Name identifies the backend for logs and cache keys.
	Name() string
	// Invoke performs one blocking completion call.
	Invoke(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	// Model is the model identifier; it also picks the backend
	// (gemini-* models go to Gemini, everything else to the
	// OpenAI-compatible client).
	Model string
	// APIKey authenticates the backend (empty for local services).
	APIKey string
	// BaseURL overrides the OpenAI-compatible endpoint (Groq, Ollama).
	BaseURL string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the per-request timeout.
	Timeout time.Duration
}

func (c Config) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 120 * time.Second
}

// Backend names returned by BackendFor.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// BackendFor maps a model identifier to its backend.
func BackendFor(model string) string {
	if strings.HasPrefix(model, "gemini-") {
		return BackendGemini
	}
	return BackendOpenAI
}

// New builds the provider for cfg.Model.
func New(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("no model configured")
	}
	switch BackendFor(cfg.Model) {
	case BackendGemini:
		return newGemini(ctx, cfg)
	default:
		return newOpenAI(cfg), nil
	}
}

// makeHTTPClient builds an HTTP client honoring an explicit proxy URL or,
// when none is given, the HTTP_PROXY/HTTPS_PROXY environment variables.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
