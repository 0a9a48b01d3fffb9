// Package config resolves the run configuration for the translator.
//
// Configuration is resolved once at startup into a plain Config value:
// built-in defaults, then an optional YAML config file, then environment
// variables (a .env file in the working directory is loaded into the
// environment first). Flags are applied by the caller on top of the
// resolved value. Nothing in this package holds mutable package state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/daekeun-ml/ipynb-translator/langmeta"
	"github.com/daekeun-ml/ipynb-translator/provider"
)

// Config holds every tunable of a translation run.
type Config struct {
	// TargetLanguage is the translation target language code.
	TargetLanguage string `yaml:"target_language,omitempty"`
	// Model is the model identifier used for translation calls. It also
	// selects the backend: gemini-* models go to Gemini, everything else
	// to the OpenAI-compatible client.
	Model string `yaml:"model,omitempty"`
	// MaxTokens caps the length of a single provider response.
	MaxTokens int `yaml:"max_tokens,omitempty"`
	// Temperature is the sampling temperature for translation calls.
	Temperature float32 `yaml:"temperature,omitempty"`
	// EnablePolishing adds natural-style instructions to the prompts.
	EnablePolishing bool `yaml:"enable_polishing"`
	// BatchSize is the number of markdown cells sent per batch call.
	BatchSize int `yaml:"batch_size,omitempty"`
	// TranslateCodeCells enables comment translation inside code cells.
	TranslateCodeCells bool `yaml:"translate_code_cells,omitempty"`
	// Debug enables verbose logging.
	Debug bool `yaml:"debug,omitempty"`

	// OpenAIKey authenticates OpenAI and OpenAI-compatible backends.
	OpenAIKey string `yaml:"openai_api_key,omitempty"`
	// GeminiKey authenticates the Gemini backend.
	GeminiKey string `yaml:"gemini_api_key,omitempty"`
	// BaseURL points OpenAI-compatible requests at a custom endpoint
	// (Groq, Ollama and friends).
	BaseURL string `yaml:"base_url,omitempty"`
	// Proxy is an optional HTTP/HTTPS proxy URL for provider calls.
	Proxy string `yaml:"proxy,omitempty"`
}

// Built-in defaults, applied before any file or environment override.
const (
	DefaultTargetLanguage = "ko"
	DefaultModel          = "gpt-4o-mini"
	DefaultMaxTokens      = 4000
	DefaultTemperature    = 0.1
	DefaultBatchSize      = 20
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TargetLanguage:  DefaultTargetLanguage,
		Model:           DefaultModel,
		MaxTokens:       DefaultMaxTokens,
		Temperature:     DefaultTemperature,
		EnablePolishing: true,
		BatchSize:       DefaultBatchSize,
	}
}

// Load resolves the configuration. configPath names an optional YAML
// file; when empty, only defaults and the environment apply. A missing
// explicit file is an error, a missing .env is not.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DEFAULT_TARGET_LANGUAGE"); v != "" {
		c.TargetLanguage = v
	}
	if v := os.Getenv("MODEL_ID"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Temperature = float32(f)
		}
	}
	if v := os.Getenv("ENABLE_POLISHING"); v != "" {
		c.EnablePolishing = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BatchSize = n
		}
	}
	if v := os.Getenv("TRANSLATE_CODE_CELLS"); v != "" {
		c.TranslateCodeCells = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiKey = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
}

// APIKey returns the key for the backend serving the configured model.
func (c Config) APIKey() string {
	if provider.BackendFor(c.Model) == provider.BackendGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// CheckCredentials reports whether the API key for the configured model's
// backend is available, with a human-readable explanation. A custom base
// URL passes without a key; local endpoints often need none.
func (c Config) CheckCredentials() (bool, string) {
	switch provider.BackendFor(c.Model) {
	case provider.BackendGemini:
		if c.GeminiKey == "" {
			return false, "no Gemini API key found. Set GEMINI_API_KEY or run 'ipynb-translator auth set gemini'."
		}
	default:
		if c.OpenAIKey == "" && c.BaseURL == "" {
			return false, "no OpenAI API key found. Set OPENAI_API_KEY or run 'ipynb-translator auth set openai'."
		}
	}
	return true, "API credentials are configured."
}

// ---------------------------------------------------------------------------
// Supported sets
// ---------------------------------------------------------------------------

// SupportedModels lists the model identifiers accepted by --model.
// Identifiers starting with gemini- are served through the Gemini
// backend, everything else through the OpenAI-compatible client.
var SupportedModels = []string{
	// OpenAI models
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4.1",
	"gpt-4.1-mini",
	"gpt-4.1-nano",

	// Google Gemini models
	"gemini-2.0-flash",
	"gemini-2.5-flash",
	"gemini-2.5-pro",

	// Served by OpenAI-compatible endpoints; set BASE_URL accordingly.
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
}

// ValidateModel reports whether model is in the supported set.
func ValidateModel(model string) bool {
	for _, m := range SupportedModels {
		if m == model {
			return true
		}
	}
	return false
}

// ValidateLanguage reports whether lang is a supported target language
// code.
func ValidateLanguage(lang string) bool {
	return langmeta.Supported(lang)
}
