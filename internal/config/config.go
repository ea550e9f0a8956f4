package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/internal/relay"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type (
	// Config holds configuration settings for the flow editor server
	Config struct {
		// API Server
		APIHost         string
		APIPort         int
		LogLevel        string
		ShutdownTimeout time.Duration

		// Editors
		IDScheme         flow.IDScheme
		EditorCacheSize  int
		SeedDefaultItems bool

		// Chat
		ChatBackend ChatBackend
		ChatRedis   relay.RedisConfig

		// Export
		ExportBucketURL string
		ExportPrefix    string
	}

	// ChatBackend selects what answers chat prompts
	ChatBackend string
)

const (
	ChatBackendEcho  ChatBackend = "echo"
	ChatBackendRedis ChatBackend = "redis"
)

const (
	DefaultShutdownTimeout = 10 * time.Second

	DefaultAPIPort = 8000
	DefaultAPIHost = "0.0.0.0"
	MaxTCPPort     = 65535

	DefaultEditorCacheSize = flow.DefaultCacheSize
	MaxEditorCacheSize     = 1_000_000
	DefaultIDScheme        = flow.IDSchemeUUID

	DefaultRedisEndpoint = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultRedisPrefix   = relay.DefaultRedisPrefix
	DefaultExportPrefix  = "flows/"
)

var (
	ErrInvalidAPIPort         = errors.New("invalid API port")
	ErrInvalidLogLevel        = errors.New("invalid log level")
	ErrInvalidShutdownTimeout = errors.New(
		"shutdown timeout must be positive",
	)
	ErrInvalidIDScheme        = errors.New("invalid ID scheme")
	ErrInvalidEditorCacheSize = errors.New(
		"editor cache size must be positive",
	)
	ErrInvalidChatBackend = errors.New("invalid chat backend")
	ErrChatRedisAddr      = errors.New("redis chat backend requires an address")
)

// NewDefaultConfig creates a configuration with sensible defaults for all
// server, editor, chat and export settings
func NewDefaultConfig() *Config {
	return &Config{
		APIPort:          DefaultAPIPort,
		APIHost:          DefaultAPIHost,
		LogLevel:         "info",
		ShutdownTimeout:  DefaultShutdownTimeout,
		IDScheme:         DefaultIDScheme,
		EditorCacheSize:  DefaultEditorCacheSize,
		SeedDefaultItems: true,
		ChatBackend:      ChatBackendEcho,
		ChatRedis: relay.RedisConfig{
			Addr:   DefaultRedisEndpoint,
			DB:     DefaultRedisDB,
			Prefix: DefaultRedisPrefix,
		},
		ExportPrefix: DefaultExportPrefix,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	LoadRedisConfigFromEnv(&c.ChatRedis, "CHAT")

	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if scheme := os.Getenv("ID_SCHEME"); scheme != "" {
		c.IDScheme = flow.IDScheme(scheme)
	}
	if backend := os.Getenv("CHAT_BACKEND"); backend != "" {
		c.ChatBackend = ChatBackend(backend)
	}
	if bucket := os.Getenv("EXPORT_BUCKET_URL"); bucket != "" {
		c.ExportBucketURL = bucket
	}
	if prefix := os.Getenv("EXPORT_PREFIX"); prefix != "" {
		c.ExportPrefix = prefix
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt(
		"EDITOR_CACHE_SIZE", &c.EditorCacheSize, 0, MaxEditorCacheSize,
	); err != nil {
		return err
	}
	if err := loadEnvBool(
		"SEED_DEFAULT_ITEMS", &c.SeedDefaultItems,
	); err != nil {
		return err
	}
	return loadEnvDuration("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, c.LogLevel)
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if !c.IDScheme.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidIDScheme, c.IDScheme)
	}

	if c.EditorCacheSize <= 0 {
		return ErrInvalidEditorCacheSize
	}

	switch c.ChatBackend {
	case ChatBackendEcho:
	case ChatBackendRedis:
		if c.ChatRedis.Addr == "" {
			return ErrChatRedisAddr
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidChatBackend, c.ChatBackend)
	}

	return nil
}

// FlowOptions returns the registry options this configuration describes
func (c *Config) FlowOptions() flow.Options {
	opts := flow.Options{
		IDScheme:  c.IDScheme,
		CacheSize: c.EditorCacheSize,
	}
	if c.SeedDefaultItems {
		opts.Seed = flow.DefaultSeed()
	}
	return opts
}

// ExportEnabled reports whether flows can be exported to a bucket
func (c *Config) ExportEnabled() bool {
	return c.ExportBucketURL != ""
}

// LoadRedisConfigFromEnv loads Redis configuration from environment
// variables with the given prefix (e.g., "CHAT")
func LoadRedisConfigFromEnv(r *relay.RedisConfig, prefix string) {
	if addr := os.Getenv(prefix + "_REDIS_ADDR"); addr != "" {
		r.Addr = addr
	}
	if password := os.Getenv(prefix + "_REDIS_PASSWORD"); password != "" {
		r.Password = password
	}
	if dbStr := os.Getenv(prefix + "_REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err == nil {
			r.DB = db
		}
	}
	if envPrefix := os.Getenv(prefix + "_REDIS_PREFIX"); envPrefix != "" {
		r.Prefix = envPrefix
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if
// the value cannot be parsed or falls outside the valid range
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

func loadEnvBool(key string, dst *bool) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = v
	return nil
}

func loadEnvDuration(key string, dst *time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = v
	return nil
}
