package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FINQUOTE_"

type Config struct {
	Environment string          `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Cache       CacheConfig     `yaml:"cache"`
	Upstream    UpstreamConfig  `yaml:"upstream"`
	Batch       BatchConfig     `yaml:"batch"`
	Scoring     ScoringConfig   `yaml:"scoring"`
	RateLimit   RateLimitConfig `yaml:"ratelimit"`
	Stream      StreamConfig    `yaml:"stream"`
	Kafka       KafkaConfig     `yaml:"kafka"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowRequest     time.Duration `yaml:"slow_request" default:"2s"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stdout"`

	// Collector aggregates error logs and ships them to kafka.log_topic.
	Collector struct {
		Enabled   bool          `yaml:"enabled"`
		Interval  time.Duration `yaml:"interval" default:"30s"`
		Threshold int           `yaml:"threshold" default:"100"`
	} `yaml:"collector"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
	TTL       time.Duration `yaml:"ttl" default:"60s" validate:"gt=0"`
	ClientTTL time.Duration `yaml:"client_ttl" default:"30s" validate:"gt=0"`
	MaxSize   int           `yaml:"max_size" default:"10000" validate:"min=0"`
	Redis     RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"finquote"`
	PoolSize int    `yaml:"pool_size" default:"10"`
}

type UpstreamConfig struct {
	YahooBaseURL string        `yaml:"yahoo_base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
	NaverBaseURL string        `yaml:"naver_base_url" default:"https://m.stock.naver.com" validate:"url"`
	Timeout      time.Duration `yaml:"timeout" default:"8s" validate:"gt=0"`
	CallTimeout  time.Duration `yaml:"call_timeout" default:"10s"`
	UserAgent    string        `yaml:"user_agent"`
}

type BatchConfig struct {
	ChunkSize  int `yaml:"chunk_size" default:"5" validate:"min=1"`
	MaxSymbols int `yaml:"max_symbols" default:"20" validate:"min=1,max=100"`
}

type ScoringConfig struct {
	HoldJitter bool   `yaml:"hold_jitter"`
	Seed       uint64 `yaml:"seed"`
}

type RateLimitConfig struct {
	Enabled      bool          `yaml:"enabled" default:"true"`
	Capacity     float64       `yaml:"capacity" default:"60" validate:"gt=0"`
	RefillPerSec float64       `yaml:"refill_per_sec" default:"1" validate:"gt=0"`
	IdleTTL      time.Duration `yaml:"idle_ttl" default:"10m"`
}

type StreamConfig struct {
	Interval     time.Duration `yaml:"interval" default:"30s" validate:"gt=0"`
	PingInterval time.Duration `yaml:"ping_interval" default:"20s"`
}

type KafkaConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Brokers        []string `yaml:"brokers" validate:"required_if=Enabled true"`
	QuotesTopic    string   `yaml:"quotes_topic" default:"finquote.quotes"`
	DecisionsTopic string   `yaml:"decisions_topic" default:"finquote.decisions"`
	LogTopic       string   `yaml:"log_topic" default:"finquote.logs"`
	RequiredAcks   int      `yaml:"required_acks" default:"-1"`
	Compression    string   `yaml:"compression" default:"gzip" validate:"oneof=none gzip snappy lz4 zstd"`
	AutoCreate     bool     `yaml:"auto_create_topics"`
	Producer       struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		Linger       time.Duration `yaml:"linger" default:"1s"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		Async        bool          `yaml:"async" default:"true"`
	} `yaml:"producer"`
}

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	_ = defaults.Set(c)
	return c
}

// Load reads a YAML (.yaml/.yml) or TOML (.toml) file over the defaults.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(path, b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (when present), then the file, then applies
// FINQUOTE_* overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("env override: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// decode parses TOML into a generic tree and re-reads it as YAML so both
// formats share the yaml tags and duration strings like "30s".
func decode(path string, b []byte, c *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var tree map[string]interface{}
		if err := toml.Unmarshal(b, &tree); err != nil {
			return err
		}
		y, err := yaml.Marshal(tree)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(y, c)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(b, c)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
		return nil
	}
	flag := func(name string, dst *bool) error {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
		return nil
	}

	str("ENV", &c.Environment)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("REDIS_HOST", &c.Cache.Redis.Host)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	str("YAHOO_BASE_URL", &c.Upstream.YahooBaseURL)
	str("NAVER_BASE_URL", &c.Upstream.NaverBaseURL)
	str("USER_AGENT", &c.Upstream.UserAgent)
	if v, ok := lookup(EnvPrefix + "KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return errors.Join(
		num("PORT", &c.Server.Port),
		num("REDIS_PORT", &c.Cache.Redis.Port),
		num("REDIS_DB", &c.Cache.Redis.DB),
		flag("KAFKA_ENABLED", &c.Kafka.Enabled),
		flag("METRICS_ENABLED", &c.Metrics.Enabled),
		flag("RATELIMIT_ENABLED", &c.RateLimit.Enabled),
	)
}

var validate = validator.New()

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Cache.Backend != "memory" && c.Cache.Redis.Host == "" {
		return fmt.Errorf("cache.redis.host is required for backend %q", c.Cache.Backend)
	}
	return nil
}
