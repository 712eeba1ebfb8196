// Package config loads the service configuration from a YAML file,
// a .env file and environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
	SecureCookie   bool     `yaml:"secure_cookie"`
}

// StorageConfig selects the document and session store backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
}

// GatewayConfig configures an embedding or completion provider.
// An empty provider disables the gateway; an empty model selects the
// provider's default.
type GatewayConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Dimensions  int    `yaml:"dimensions,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`

	// APIKey is resolved from APIKeyEnv and never read from the file
	APIKey string `yaml:"-"`
}

// RateLimitConfig bounds outbound gateway requests.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ProcessingConfig tunes chunking and retrieval.
type ProcessingConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	BatchSize int `yaml:"batch_size"`
	TopK      int `yaml:"top_k"`
}

// SessionConfig configures the signed session cookie.
type SessionConfig struct {
	Secret  string `yaml:"secret"`
	TTLSecs int    `yaml:"ttl_secs"` // 0 issues cookies that never expire
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  GatewayConfig    `yaml:"embedding"`
	Completion GatewayConfig    `yaml:"completion"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Processing ProcessingConfig `yaml:"processing"`
	Session    SessionConfig    `yaml:"session"`
	Log        LogConfig        `yaml:"log"`
}

// DefaultSessionSecret is used when no secret is configured
const DefaultSessionSecret = "development-secret-change-in-production"

// LoadDotEnv loads .env files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
	if len(paths) == 0 {
		_ = godotenv.Load()
	}
}

// Load reads a config from path and applies defaults and environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			AllowedOrigins: []string{"http://localhost:3000"},
			MaxUploadMB:    64,
		},
		Storage: StorageConfig{Backend: BackendMemory},
		Embedding: GatewayConfig{
			Provider:    string(domain.AIProviderOpenAI),
			APIKeyEnv:   "OPENAI_API_KEY",
			TimeoutSecs: int(domain.DefaultGatewayTimeout / time.Second),
		},
		Completion: GatewayConfig{
			Provider:    string(domain.AIProviderOpenAI),
			APIKeyEnv:   "OPENAI_API_KEY",
			TimeoutSecs: int(domain.DefaultGatewayTimeout / time.Second),
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 5, Burst: 10},
		Processing: ProcessingConfig{
			ChunkSize: 1000,
			BatchSize: 16,
			TopK:      domain.DefaultTopK,
		},
		Session: SessionConfig{Secret: DefaultSessionSecret},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// applyDefaults fills zero values left by a partial file
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = def.Server.MaxUploadMB
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	applyGatewayDefaults(&cfg.Embedding)
	applyGatewayDefaults(&cfg.Completion)
	if cfg.Processing.ChunkSize == 0 {
		cfg.Processing.ChunkSize = def.Processing.ChunkSize
	}
	if cfg.Processing.BatchSize == 0 {
		cfg.Processing.BatchSize = def.Processing.BatchSize
	}
	if cfg.Processing.TopK == 0 {
		cfg.Processing.TopK = def.Processing.TopK
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = def.Session.Secret
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func applyGatewayDefaults(g *GatewayConfig) {
	if g.APIKeyEnv == "" && domain.AIProvider(g.Provider).RequiresAPIKey() {
		g.APIKeyEnv = "OPENAI_API_KEY"
	}
	if g.TimeoutSecs == 0 {
		g.TimeoutSecs = int(domain.DefaultGatewayTimeout / time.Second)
	}
}

// applyEnv overrides file values with environment variables
func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	cfg.Server.SecureCookie = getEnvBool("SECURE_COOKIE", cfg.Server.SecureCookie)

	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.RedisURL = getEnv("REDIS_URL", cfg.Storage.RedisURL)
	cfg.Storage.DatabaseURL = getEnv("DATABASE_URL", cfg.Storage.DatabaseURL)

	applyGatewayEnv(&cfg.Embedding, "EMBEDDING")
	applyGatewayEnv(&cfg.Completion, "COMPLETION")

	cfg.Processing.ChunkSize = getEnvInt("CHUNK_SIZE", cfg.Processing.ChunkSize)
	cfg.Session.Secret = getEnv("SESSION_SECRET", cfg.Session.Secret)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func applyGatewayEnv(g *GatewayConfig, prefix string) {
	g.Provider = getEnv(prefix+"_PROVIDER", g.Provider)
	g.Model = getEnv(prefix+"_MODEL", g.Model)
	g.BaseURL = getEnv(prefix+"_BASE_URL", g.BaseURL)
	if g.APIKeyEnv != "" {
		g.APIKey = os.Getenv(g.APIKeyEnv)
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("server.max_upload_mb must be positive"))
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, errors.New("storage.redis_url is required for the redis backend"))
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	for name, g := range map[string]GatewayConfig{"embedding": c.Embedding, "completion": c.Completion} {
		if g.Provider != "" && !domain.AIProvider(g.Provider).IsValid() {
			errs = append(errs, fmt.Errorf("%s: %w: %q", name, domain.ErrInvalidProvider, g.Provider))
		}
		if g.TimeoutSecs < 0 {
			errs = append(errs, fmt.Errorf("%s.timeout_secs must not be negative", name))
		}
	}

	if c.Processing.ChunkSize <= 0 {
		errs = append(errs, errors.New("processing.chunk_size must be positive"))
	}
	if c.Processing.BatchSize <= 0 {
		errs = append(errs, errors.New("processing.batch_size must be positive"))
	}
	if c.Processing.TopK <= 0 {
		errs = append(errs, errors.New("processing.top_k must be positive"))
	}
	if c.Session.TTLSecs < 0 {
		errs = append(errs, errors.New("session.ttl_secs must not be negative"))
	}

	return errors.Join(errs...)
}

// EmbeddingSettings converts the embedding section for the AI factory
func (c *Config) EmbeddingSettings() *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider:   domain.AIProvider(c.Embedding.Provider),
		Model:      c.Embedding.Model,
		APIKey:     c.Embedding.APIKey,
		BaseURL:    c.Embedding.BaseURL,
		Dimensions: c.Embedding.Dimensions,
		Timeout:    c.Embedding.Timeout(),
	}
}

// CompletionSettings converts the completion section for the AI factory
func (c *Config) CompletionSettings() *domain.CompletionSettings {
	return &domain.CompletionSettings{
		Provider: domain.AIProvider(c.Completion.Provider),
		Model:    c.Completion.Model,
		APIKey:   c.Completion.APIKey,
		BaseURL:  c.Completion.BaseURL,
		Timeout:  c.Completion.Timeout(),
	}
}

// Timeout returns the per-call deadline
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// SessionTTL returns the cookie lifetime, zero for no expiry
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLSecs) * time.Second
}

// MaxUploadBytes returns the request body limit for uploads
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
