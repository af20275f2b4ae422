package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	LLM        LLMConfig        `yaml:"llm"`
	Geo        GeoConfig        `yaml:"geo"`
	Weather    WeatherConfig    `yaml:"weather"`
	AirQuality AirQualityConfig `yaml:"airQuality"`
	Photos     PhotosConfig     `yaml:"photos"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Readings   ReadingsConfig   `yaml:"readings"`
	Storage    StorageConfig    `yaml:"storage"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Auth       AuthConfig       `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent inbound requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig contains DeepSeek chat completion settings.
type LLMConfig struct {
	APIKey         string  `yaml:"apiKey"`
	BaseURL        string  `yaml:"baseUrl"`
	Model          string  `yaml:"model"`
	EmbeddingModel string  `yaml:"embeddingModel"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"maxTokens"`
	PromptBudget   int     `yaml:"promptBudget"`
}

// GeoConfig controls the geocoding provider used by the city resolver.
type GeoConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// WeatherConfig controls the current-conditions provider.
type WeatherConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// AirQualityConfig controls the PM2.5 provider.
type AirQualityConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// PhotosConfig controls the city background photo provider.
type PhotosConfig struct {
	APIKey      string `yaml:"apiKey"`
	BaseURL     string `yaml:"baseUrl"`
	PerPage     int    `yaml:"perPage"`
	Orientation string `yaml:"orientation"`
	FallbackURL string `yaml:"fallbackUrl"`
}

// TelemetryConfig controls the device telemetry poller.
type TelemetryConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Interval time.Duration `yaml:"interval"`
}

// ReadingsConfig controls where the last good environment reading per city lives.
type ReadingsConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the reading cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StorageConfig contains DSN and pooling settings for the relational store.
type StorageConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// UploadsConfig configures the S3-compatible image bucket.
type UploadsConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"publicUrl"`
}

// AuthConfig configures verification of backend-issued session tokens.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	IssuerURL string `yaml:"issuerUrl"`
}

// Load reads configuration from an optional .env file, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("LLM_PROMPT_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.PromptBudget = parsed
		}
	}
	if v := os.Getenv("GEO_BASE_URL"); v != "" {
		cfg.Geo.BaseURL = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("AIR_QUALITY_BASE_URL"); v != "" {
		cfg.AirQuality.BaseURL = v
	}
	if v := os.Getenv("PEXELS_API_KEY"); v != "" {
		cfg.Photos.APIKey = v
	}
	if v := os.Getenv("PEXELS_BASE_URL"); v != "" {
		cfg.Photos.BaseURL = v
	}
	if v := os.Getenv("TELEMETRY_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("TELEMETRY_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Telemetry.Interval = parsed
		}
	}
	if v := os.Getenv("READINGS_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Readings.TTL = parsed
		}
	}
	if v := os.Getenv("READINGS_VALKEY_ENABLED"); v != "" {
		cfg.Readings.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("READINGS_VALKEY_ADDR"); v != "" {
		cfg.Readings.Valkey.Addr = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORAGE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("UPLOADS_ENDPOINT"); v != "" {
		cfg.Uploads.Endpoint = v
	}
	if v := os.Getenv("UPLOADS_ACCESS_KEY"); v != "" {
		cfg.Uploads.AccessKey = v
	}
	if v := os.Getenv("UPLOADS_SECRET_KEY"); v != "" {
		cfg.Uploads.SecretKey = v
	}
	if v := os.Getenv("UPLOADS_BUCKET"); v != "" {
		cfg.Uploads.Bucket = v
	}
	if v := os.Getenv("UPLOADS_REGION"); v != "" {
		cfg.Uploads.Region = v
	}
	if v := os.Getenv("UPLOADS_PUBLIC_URL"); v != "" {
		cfg.Uploads.PublicURL = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_ISSUER_URL"); v != "" {
		cfg.Auth.IssuerURL = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/assistant/chat",
					"/api/v1/assistant/care-guide",
				},
			},
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.deepseek.com/v1",
			Model:          "deepseek-chat",
			EmbeddingModel: "deepseek-embedding",
			Temperature:    0.7,
			MaxTokens:      2000,
			PromptBudget:   3000,
		},
		Geo: GeoConfig{
			BaseURL: "https://geocoding-api.open-meteo.com/v1/search",
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.open-meteo.com/v1/forecast",
		},
		AirQuality: AirQualityConfig{
			BaseURL: "https://air-quality-api.open-meteo.com/v1/air-quality",
		},
		Photos: PhotosConfig{
			BaseURL:     "https://api.pexels.com/v1/search",
			PerPage:     15,
			Orientation: "landscape",
			FallbackURL: "https://images.pexels.com/photos/1486222/pexels-photo-1486222.jpeg?auto=compress&cs=tinysrgb&w=1920",
		},
		Telemetry: TelemetryConfig{
			Endpoint: "https://ent.vip.cpolar.cn/data",
			Interval: 3 * time.Second,
		},
		Readings: ReadingsConfig{
			TTL: 6 * time.Hour,
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		Storage: StorageConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Geo.BaseURL == "" {
		return errors.New("geo.baseUrl cannot be empty")
	}
	if c.Weather.BaseURL == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.AirQuality.BaseURL == "" {
		return errors.New("airQuality.baseUrl cannot be empty")
	}
	if c.Photos.BaseURL == "" {
		return errors.New("photos.baseUrl cannot be empty")
	}
	if c.Photos.PerPage <= 0 {
		return errors.New("photos.perPage must be positive")
	}
	if c.Telemetry.Endpoint == "" {
		return errors.New("telemetry.endpoint cannot be empty")
	}
	if c.Telemetry.Interval <= 0 {
		return errors.New("telemetry.interval must be positive")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.Readings.TTL < 0 {
		return errors.New("readings.ttl cannot be negative")
	}
	if c.Readings.Valkey.Enabled && strings.TrimSpace(c.Readings.Valkey.Addr) == "" {
		return errors.New("readings.valkey.addr cannot be empty when the valkey cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
