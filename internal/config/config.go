// Package config loads service configuration in three layers: built-in
// defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tourism/config.yaml",
}

// Geocoder backends for station mode.
const (
	GeocoderGoogle    = "google"
	GeocoderNominatim = "nominatim"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Providers ProvidersConfig `koanf:"providers"`
	Recommend RecommendConfig `koanf:"recommend"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Archive   ArchiveConfig   `koanf:"archive"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// CORSOrigins lists allowed browser origins; empty disables CORS headers.
	CORSOrigins       []string      `koanf:"cors_origins"`
	// RateLimitRequests per RateLimitWindow per client IP; 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// ProvidersConfig holds the external API credentials. Keys may be empty at
// startup; a request that needs a missing key fails instead.
type ProvidersConfig struct {
	HotpepperAPIKey string        `koanf:"hotpepper_api_key"`
	GoogleAPIKey    string        `koanf:"google_api_key"`
	HTTPTimeout     time.Duration `koanf:"http_timeout" validate:"gt=0"`
	Geocoder        string        `koanf:"geocoder" validate:"oneof=google nominatim"`
	PhotoMaxWidth   int           `koanf:"photo_max_width" validate:"gte=1,lte=1600"`

	// WikipediaEnabled fills empty place descriptions from Wikipedia.
	WikipediaEnabled bool `koanf:"wikipedia_enabled"`
}

type RecommendConfig struct {
	MergePolicy    string `koanf:"merge_policy" validate:"oneof=preserve secondary_only"`
	CandidateCount int    `koanf:"candidate_count" validate:"gte=1,lte=100"`
	NearbyRadius   int    `koanf:"nearby_radius" validate:"gte=1,lte=50000"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

type KafkaConfig struct {
	Broker      string `koanf:"broker"`
	Topic       string `koanf:"topic"`
	GroupID     string `koanf:"group_id"`
	ResultTopic string `koanf:"result_topic"`
}

type ArchiveConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Endpoint  string `koanf:"endpoint" validate:"required_if=Enabled true"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
		},
		Providers: ProvidersConfig{
			HTTPTimeout:   10 * time.Second,
			Geocoder:      GeocoderGoogle,
			PhotoMaxWidth: 800,
		},
		Recommend: RecommendConfig{
			MergePolicy:    "preserve",
			CandidateCount: 10,
			NearbyRadius:   1000,
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Kafka: KafkaConfig{
			Broker:      "localhost:9092",
			Topic:       "ranking.requested",
			GroupID:     "ranking-worker",
			ResultTopic: "ranking.completed",
		},
		Archive: ArchiveConfig{
			Bucket: "rankings",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. Environment variables win over the file,
// which wins over defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"http_addr":             "server.addr",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",

	"hotpepper_api_key": "providers.hotpepper_api_key",
	"google_api_key":    "providers.google_api_key",
	"http_timeout":      "providers.http_timeout",
	"geocoder":          "providers.geocoder",
	"photo_max_width":   "providers.photo_max_width",
	"wikipedia_enabled": "providers.wikipedia_enabled",

	"merge_policy":    "recommend.merge_policy",
	"candidate_count": "recommend.candidate_count",
	"nearby_radius":   "recommend.nearby_radius",

	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	"kafka_broker":       "kafka.broker",
	"kafka_topic":        "kafka.topic",
	"kafka_group_id":     "kafka.group_id",
	"kafka_result_topic": "kafka.result_topic",

	"archive_enabled":  "archive.enabled",
	"minio_endpoint":   "archive.endpoint",
	"minio_access_key": "archive.access_key",
	"minio_secret_key": "archive.secret_key",
	"minio_use_ssl":    "archive.use_ssl",
	"minio_bucket":     "archive.bucket",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc maps flat variable names such as GOOGLE_API_KEY onto
// config paths. Unknown variables are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
