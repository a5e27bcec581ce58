package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BASEBALL_SERVER_ADDR
const EnvPrefix = "BASEBALL"

// Storage backends
const (
	StorageMemory   = "memory"
	StorageCSV      = "csv"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds every server setting
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds listener and capacity settings
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	MaxRooms int    `mapstructure:"max_rooms"`
}

// GameConfig holds gameplay switches
type GameConfig struct {
	EnforceTurnTimeout bool `mapstructure:"enforce_turn_timeout"`
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	Type        string `mapstructure:"type"`
	CSVDir      string `mapstructure:"csv_dir"`
	RedisURL    string `mapstructure:"redis_url"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// AuthConfig holds login token settings
type AuthConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	// TokenSecret derives the signing key. Empty means a fresh key per process.
	TokenSecret string `mapstructure:"token_secret"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":54321")
	v.SetDefault("server.max_rooms", 5)
	v.SetDefault("game.enforce_turn_timeout", false)
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.csv_dir", "data")
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("storage.postgres_url", "postgres://localhost:5432/baseball")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from defaults, an optional config file, a .env
// file and BASEBALL_* environment variables, in increasing precedence. An
// empty path searches for baseball.yaml in the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("baseball")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check on its own
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageCSV, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("storage.type must be one of memory, csv, redis, postgres: got %q", c.Storage.Type)
	}
	if c.Server.MaxRooms < 1 {
		return fmt.Errorf("server.max_rooms must be positive: got %d", c.Server.MaxRooms)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive: got %s", c.Auth.TokenTTL)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// TokenSeed returns the 32-byte signing seed derived from the secret, or nil
func (c AuthConfig) TokenSeed() []byte {
	if c.TokenSecret == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(c.TokenSecret))
	return sum[:]
}

// SlogLevel parses the configured level name
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
