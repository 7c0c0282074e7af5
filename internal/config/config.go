package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider backends.
const (
	ProviderMock   = "mock"
	ProviderRelay  = "relay"
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
)

// Storage backends.
const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
)

// Speech backends.
const (
	SpeechMock   = "mock"
	SpeechOpenAI = "openai"
)

type Config struct {
	Port string `yaml:"port"`

	Provider       string `yaml:"provider"`        // mock | relay | openai | vertex
	StorageBackend string `yaml:"storage_backend"` // memory | firestore
	SpeechBackend  string `yaml:"speech_backend"`  // mock | openai

	RelayURL       string        `yaml:"relay_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	MaxMessageChars int    `yaml:"max_message_chars"`
	SystemPrompt    string `yaml:"system_prompt"`
	ModelName       string `yaml:"model_name"`

	SpeechModel string `yaml:"speech_model"`
	SpeechVoice string `yaml:"speech_voice"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`

	// Secrets come from the environment only, never from the config file.
	OpenAIAPIKey string `yaml:"-"`
	RelayAPIKey  string `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		Provider:        ProviderMock,
		StorageBackend:  StorageMemory,
		SpeechBackend:   SpeechMock,
		RequestTimeout:  30 * time.Second,
		MaxMessageChars: 4000,
		GCPLocation:     "us-central1",
	}
}

// Load builds the config: defaults, then the optional YAML file, then env
// vars (PARLEY_*) on top.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Port = getEnv("PARLEY_PORT", cfg.Port)
	cfg.Provider = getEnv("PARLEY_PROVIDER", cfg.Provider)
	cfg.StorageBackend = getEnv("PARLEY_STORAGE_BACKEND", cfg.StorageBackend)
	cfg.SpeechBackend = getEnv("PARLEY_SPEECH_BACKEND", cfg.SpeechBackend)
	cfg.RelayURL = getEnv("PARLEY_RELAY_URL", cfg.RelayURL)
	cfg.RequestTimeout = getDurationEnv("PARLEY_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.MaxMessageChars = getIntEnv("PARLEY_MAX_MESSAGE_CHARS", cfg.MaxMessageChars)
	cfg.SystemPrompt = getEnv("PARLEY_SYSTEM_PROMPT", cfg.SystemPrompt)
	cfg.ModelName = getEnv("PARLEY_MODEL_NAME", cfg.ModelName)
	cfg.SpeechModel = getEnv("PARLEY_SPEECH_MODEL", cfg.SpeechModel)
	cfg.SpeechVoice = getEnv("PARLEY_SPEECH_VOICE", cfg.SpeechVoice)
	cfg.GCPProjectID = getEnv("PARLEY_GCP_PROJECT", cfg.GCPProjectID)
	cfg.GCPLocation = getEnv("PARLEY_GCP_LOCATION", cfg.GCPLocation)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.RelayAPIKey = getEnv("PARLEY_RELAY_API_KEY", "")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderMock:
	case ProviderRelay:
		if c.RelayURL == "" {
			return fmt.Errorf("PARLEY_RELAY_URL is required for the relay provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderVertex:
		if c.GCPProjectID == "" {
			return fmt.Errorf("PARLEY_GCP_PROJECT is required for the vertex provider")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("PARLEY_GCP_PROJECT is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	switch c.SpeechBackend {
	case SpeechMock:
	case SpeechOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai speech backend")
		}
	default:
		return fmt.Errorf("unknown speech backend %q", c.SpeechBackend)
	}

	if c.MaxMessageChars <= 0 {
		return fmt.Errorf("max_message_chars must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
