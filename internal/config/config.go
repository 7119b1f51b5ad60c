// Package config loads service settings from .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendHuggingFace = "huggingface"
	BackendLLM         = "llm"

	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"
)

type Config struct {
	Port    int
	GinMode string

	// Recognizer selection
	NERBackend     string
	NERTimeout     time.Duration
	WarmupAttempts int

	// HuggingFace token-classification endpoint
	HFAPIURL   string
	HFAPIToken string

	// LLM recognizer
	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OllamaURL    string
	OllamaModel  string
}

func Default() Config {
	return Config{
		Port:           5001,
		GinMode:        "release",
		NERBackend:     BackendHuggingFace,
		NERTimeout:     60 * time.Second,
		WarmupAttempts: 5,
		HFAPIURL:       "https://router.huggingface.co/hf-inference/models",
		LLMProvider:    ProviderGoogleAI,
		GeminiModel:    "gemini-2.5-flash",
		OllamaURL:      "http://localhost:11434",
		OllamaModel:    "llama3.1",
	}
}

// Load reads an optional .env file and overlays environment variables on the
// defaults. A missing .env file is not an error.
func Load(overrides ...func(*Config)) (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv, overrides...)
}

// FromEnv builds a Config from a getenv-style lookup. Overrides run after the
// environment is read and before validation.
func FromEnv(getenv func(string) string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := getenv("NER_BACKEND"); v != "" {
		cfg.NERBackend = v
	}
	if v := getenv("NER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid NER_TIMEOUT %q: %w", v, err)
		}
		cfg.NERTimeout = d
	}
	if v := getenv("WARMUP_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WARMUP_ATTEMPTS %q: %w", v, err)
		}
		cfg.WarmupAttempts = n
	}
	if v := getenv("HF_API_URL"); v != "" {
		cfg.HFAPIURL = v
	}
	cfg.HFAPIToken = getenv("HF_API_TOKEN")
	if v := getenv("LLM_PROVIDER"); v != "" {
		cfg.LLMProvider = v
	}
	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY")
	if v := getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := getenv("OLLAMA_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := getenv("OLLAMA_MODEL"); v != "" {
		cfg.OllamaModel = v
	}
	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and backend-specific requirements.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config error: unknown GIN_MODE %q", c.GinMode)
	}
	if c.NERTimeout <= 0 {
		return fmt.Errorf("config error: NER timeout must be positive")
	}
	if c.WarmupAttempts < 1 {
		return fmt.Errorf("config error: warmup attempts must be at least 1")
	}

	switch c.NERBackend {
	case BackendHuggingFace:
		if c.HFAPIURL == "" {
			return fmt.Errorf("config error: HF_API_URL is required for the %s backend", BackendHuggingFace)
		}
	case BackendLLM:
		switch c.LLMProvider {
		case ProviderGoogleAI:
			if c.GeminiAPIKey == "" {
				return fmt.Errorf("config error: GEMINI_API_KEY is required for the %s provider", ProviderGoogleAI)
			}
		case ProviderOllama:
			if c.OllamaURL == "" {
				return fmt.Errorf("config error: OLLAMA_URL is required for the %s provider", ProviderOllama)
			}
		default:
			return fmt.Errorf("config error: unknown LLM_PROVIDER %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("config error: unknown NER_BACKEND %q", c.NERBackend)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
