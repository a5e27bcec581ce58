package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultServerURL is the address used when neither a flag, env var nor
// config file names one
const DefaultServerURL = "http://localhost:54321"

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	ConfigFile string
	Output     string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("BASEBALL_SERVER", DefaultServerURL),
		ConfigFile: os.Getenv("BASEBALL_CLIENT_CONFIG"),
		Output:     "text",
	}
}

// LoadFile reads the server address from the config file, if one is set.
// A file may be yaml/json/toml with a "server" key, or a bare address in a
// .txt file. Flags set explicitly win over the file.
func (c *Config) LoadFile(serverFlagSet bool) error {
	if c.ConfigFile == "" || serverFlagSet {
		return nil
	}

	if strings.HasSuffix(c.ConfigFile, ".txt") {
		data, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if addr := strings.TrimSpace(string(data)); addr != "" {
			c.ServerURL = normalizeServer(addr)
		}
		return nil
	}

	v := viper.New()
	v.SetConfigFile(c.ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if addr := v.GetString("server"); addr != "" {
		c.ServerURL = normalizeServer(addr)
	}
	return nil
}

// WebSocketURL returns the game socket endpoint for ServerURL
func (c *Config) WebSocketURL() (string, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// normalizeServer accepts "host:port" as well as full URLs
func normalizeServer(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return "http://" + addr
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
