package config

import (
	"errors"
	appErrors "shutdownassistant/internal/pkg/errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOST", "PORT", "API_KEY", "ASSISTANT_DB_PATH", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	t.Setenv("ASSISTANT_CONFIG_FILE", "/tmp/assistant/config.ini")
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings(NewViper(), "ShutdownAssistant")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", s.Host)
	assert.Equal(t, 8080, s.Port)
	assert.Empty(t, s.APIKey)
	assert.Equal(t, "/tmp/assistant/config.ini", s.ConfigFile)
	assert.Equal(t, "127.0.0.1:8080", s.Addr())
	assert.Empty(t, s.AllowedOrigins)
}

func TestLoadSettings_AllowedOrigins(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://panel.example, ,http://localhost:3000 ")

	s, err := LoadSettings(NewViper(), "ShutdownAssistant")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://panel.example", "http://localhost:3000"}, s.AllowedOrigins)
}

func TestLoadSettings_Environment(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")
	t.Setenv("API_KEY", "secret")
	t.Setenv("ASSISTANT_DB_PATH", "/tmp/h.db")

	s, err := LoadSettings(NewViper(), "ShutdownAssistant")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", s.Addr())
	assert.Equal(t, "secret", s.APIKey)
	assert.Equal(t, "/tmp/h.db", s.DBPath)
}

func TestLoadSettings_FlagsOverrideEnvironment(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("PORT", "9090")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.Int("port", 8080, "")
	fs.String("host", "127.0.0.1", "")
	require.NoError(t, fs.Parse([]string{"--port", "7000"}))

	v := NewViper()
	require.NoError(t, BindFlags(v, fs, map[string]string{"port": KeyPort, "host": KeyHost, "missing": KeyAPIKey}))

	s, err := LoadSettings(v, "ShutdownAssistant")
	require.NoError(t, err)
	assert.Equal(t, 7000, s.Port)
	assert.Equal(t, "127.0.0.1", s.Host)
}

func TestLoadSettings_InvalidPort(t *testing.T) {
	clearSettingsEnv(t)

	for _, port := range []string{"http", "0", "70000"} {
		t.Setenv("PORT", port)
		_, err := LoadSettings(NewViper(), "ShutdownAssistant")
		require.Error(t, err, port)
		assert.True(t, errors.Is(err, appErrors.ErrConfig), port)
	}
}
