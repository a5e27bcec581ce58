package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileBareAddress(t *testing.T) {
	c := &Config{ServerURL: DefaultServerURL, ConfigFile: writeFile(t, "server.txt", "10.0.0.5:6000\n")}

	require.NoError(t, c.LoadFile(false))
	assert.Equal(t, "http://10.0.0.5:6000", c.ServerURL)
}

func TestLoadFileYAML(t *testing.T) {
	c := &Config{ServerURL: DefaultServerURL, ConfigFile: writeFile(t, "client.yaml", "server: https://game.example.com\n")}

	require.NoError(t, c.LoadFile(false))
	assert.Equal(t, "https://game.example.com", c.ServerURL)
}

func TestLoadFileFlagWins(t *testing.T) {
	c := &Config{ServerURL: "http://flag:1", ConfigFile: writeFile(t, "server.txt", "file:2")}

	require.NoError(t, c.LoadFile(true))
	assert.Equal(t, "http://flag:1", c.ServerURL)
}

func TestLoadFileMissing(t *testing.T) {
	c := &Config{ServerURL: DefaultServerURL, ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}

	assert.Error(t, c.LoadFile(false))
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"http://localhost:54321", "ws://localhost:54321/ws"},
		{"https://game.example.com/", "wss://game.example.com/ws"},
		{"http://proxy/baseball", "ws://proxy/baseball/ws"},
	}
	for _, tt := range tests {
		c := &Config{ServerURL: tt.server}
		got, err := c.WebSocketURL()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
