package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider credentials and endpoints for the two LLM backends.
type OpenRouter struct {
	APIKey        string
	BaseURL       string
	Model         string
	Referer       string
	Title         string
	MaxInputUnits int
}

type Gemini struct {
	APIKey         string
	BaseURL        string
	Model          string
	FallbackModels []string
	MaxInputUnits  int
}

// LLM is the explicit configuration handed to the dispatcher. Nothing below
// the dispatcher reads the environment.
type LLM struct {
	DefaultProvider string
	Timeout         time.Duration
	OpenRouter      OpenRouter
	Gemini          Gemini
}

// Storage selects the object store backend for generated files.
type Storage struct {
	Driver             string // local or gcs
	LocalRoot          string
	GCSBucket          string
	GCSCredentialsFile string
}

type Config struct {
	HTTP struct {
		Addr    string
		BaseURL string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Storage         Storage
	LogMode         string
	SessionLifetime time.Duration
	InsecureCookies bool
	LLM             LLM
}

const (
	defaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultGeminiURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModels  = "gemini-2.5-flash,gemini-2.0-flash,gemini-1.5-pro-latest,gemini-1.5-pro"
)

// Load reads config from environment (SITEGEN_ prefix) and optional sitegen.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("sitegen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.base_url", "http://localhost:8080")
	v.SetDefault("session.lifetime", "24h")
	v.SetDefault("log.mode", "development")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_root", "./storage")

	v.SetDefault("llm.default_provider", "openrouter")
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.openrouter.base_url", defaultOpenRouterURL)
	v.SetDefault("llm.openrouter.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("llm.openrouter.title", "AI Web Generator")
	v.SetDefault("llm.openrouter.max_input_units", 45000)
	v.SetDefault("llm.gemini.base_url", defaultGeminiURL)
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.gemini.fallback_models", defaultGeminiModels)
	v.SetDefault("llm.gemini.max_input_units", 250000)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.BaseURL = strings.TrimRight(v.GetString("http.base_url"), "/")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Storage.Driver = v.GetString("storage.driver")
	cfg.Storage.LocalRoot = v.GetString("storage.local_root")
	cfg.Storage.GCSBucket = v.GetString("storage.gcs_bucket")
	cfg.Storage.GCSCredentialsFile = v.GetString("storage.gcs_credentials_file")
	cfg.LogMode = v.GetString("log.mode")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid SITEGEN_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	llm, err := llmFromViper(v, cfg.HTTP.BaseURL)
	if err != nil {
		return nil, err
	}
	cfg.LLM = llm

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("SITEGEN_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("SITEGEN_DB_DSN is required")
	}
	switch cfg.Storage.Driver {
	case "local":
	case "gcs":
		if cfg.Storage.GCSBucket == "" {
			return nil, fmt.Errorf("SITEGEN_STORAGE_GCS_BUCKET is required when SITEGEN_STORAGE_DRIVER=gcs")
		}
	default:
		return nil, fmt.Errorf("unsupported SITEGEN_STORAGE_DRIVER %q: must be local or gcs", cfg.Storage.Driver)
	}

	return cfg, nil
}

// LoadLLM reads only the LLM section. Used by commands that run the pipeline
// without a database.
func LoadLLM() (LLM, error) {
	v := viper.New()
	v.SetEnvPrefix("SITEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("sitegen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	setDefaults(v)
	return llmFromViper(v, strings.TrimRight(v.GetString("http.base_url"), "/"))
}

func llmFromViper(v *viper.Viper, baseURL string) (LLM, error) {
	timeout, err := time.ParseDuration(v.GetString("llm.timeout"))
	if err != nil {
		return LLM{}, fmt.Errorf("invalid SITEGEN_LLM_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return LLM{}, fmt.Errorf("SITEGEN_LLM_TIMEOUT must be positive")
	}

	referer := v.GetString("llm.openrouter.referer")
	if referer == "" {
		referer = baseURL
	}

	return LLM{
		DefaultProvider: v.GetString("llm.default_provider"),
		Timeout:         timeout,
		OpenRouter: OpenRouter{
			APIKey:        strings.TrimSpace(v.GetString("llm.openrouter.api_key")),
			BaseURL:       v.GetString("llm.openrouter.base_url"),
			Model:         v.GetString("llm.openrouter.model"),
			Referer:       referer,
			Title:         v.GetString("llm.openrouter.title"),
			MaxInputUnits: v.GetInt("llm.openrouter.max_input_units"),
		},
		Gemini: Gemini{
			APIKey:         strings.TrimSpace(v.GetString("llm.gemini.api_key")),
			BaseURL:        strings.TrimRight(v.GetString("llm.gemini.base_url"), "/"),
			Model:          v.GetString("llm.gemini.model"),
			FallbackModels: splitList(v.GetString("llm.gemini.fallback_models")),
			MaxInputUnits:  v.GetInt("llm.gemini.max_input_units"),
		},
	}, nil
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
