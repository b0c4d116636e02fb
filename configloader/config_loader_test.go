package configloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kvcache-dev/kvcache/configloader"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	MaxMemoryMB int    `koanf:"max_memory_mb"`
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigLoader_Merge(t *testing.T) {
	defaults := serverConfig{Host: "localhost", Port: 8080}

	path := writeConfigFile(t, "config.json", `{"host": "file-host"}`)

	t.Setenv("APP_PORT", "9090")

	loader := configloader.NewConfigLoader(
		configloader.WithDefaults(defaults),
		configloader.WithFile[serverConfig](path),
		configloader.WithEnv[serverConfig]("APP_"),
	)

	config, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "file-host", config.Host, "file source overrides the default")
	assert.Equal(t, 9090, config.Port, "env source overrides the default")
}

func TestConfigLoader_YAMLFile(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", "host: yaml-host\nport: 7070\n")

	loader := configloader.NewConfigLoader(
		configloader.WithFile[serverConfig](path),
	)

	config, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml-host", config.Host)
	assert.Equal(t, 7070, config.Port)
}

func TestConfigLoader_FlatEnv(t *testing.T) {
	defaults := serverConfig{Host: "localhost", MaxMemoryMB: 512}

	// Unprefixed and underscored: the variable name itself is the key.
	t.Setenv("MAX_MEMORY_MB", "128")

	loader := configloader.NewConfigLoader(
		configloader.WithDefaults(defaults),
		configloader.WithFlatEnv[serverConfig](),
	)

	config, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 128, config.MaxMemoryMB)
	assert.Equal(t, "localhost", config.Host)
}

func TestConfigLoader_Flags(t *testing.T) {
	defaults := serverConfig{Host: "localhost", Port: 8080}

	f := pflag.NewFlagSet("config", pflag.ContinueOnError)
	f.String("host", "default-flag-host", "Host address")
	f.Int("port", 0, "Port number")
	require.NoError(t, f.Parse([]string{"--host=flag-host", "--port=9091"}))

	loader := configloader.NewConfigLoader(
		configloader.WithDefaults(defaults),
		configloader.WithFlags[serverConfig](f),
	)

	config, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "flag-host", config.Host)
	assert.Equal(t, 9091, config.Port)
}

func TestConfigLoader_OrderMatters(t *testing.T) {
	defaults := serverConfig{Host: "default-host"}
	path := writeConfigFile(t, "config_order.json", `{"host": "file-host"}`)

	first := configloader.NewConfigLoader(
		configloader.WithDefaults(defaults),
		configloader.WithFile[serverConfig](path),
	)
	config, err := first.Load()
	require.NoError(t, err)
	assert.Equal(t, "file-host", config.Host, "later file source wins")

	second := configloader.NewConfigLoader(
		configloader.WithFile[serverConfig](path),
		configloader.WithDefaults(defaults),
	)
	config, err = second.Load()
	require.NoError(t, err)
	assert.Equal(t, "default-host", config.Host, "later defaults source wins")
}

func TestConfigLoader_MissingFile(t *testing.T) {
	loader := configloader.NewConfigLoader(
		configloader.WithFile[serverConfig]("does-not-exist.json"),
	)

	_, err := loader.Load()
	assert.Error(t, err)
}
