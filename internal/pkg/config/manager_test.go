package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), SecretsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadCredentials_FlagsWin(t *testing.T) {
	secrets := writeSecrets(t, `{"api_key": "sk-filefilefilefilefilefile", "base_url": "https://file.example/v1"}`)
	t.Setenv(EnvAPIKey, "sk-enventryenventryenventry")
	t.Setenv(EnvBaseURL, "https://env.example/v1")

	creds, err := LoadCredentialsFromFile("sk-flagflagflagflagflagflag", "https://flag.example/v1", secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-flagflagflagflagflagflag", creds.APIKey)
	assert.Equal(t, "https://flag.example/v1", creds.BaseURL)
}

func TestLoadCredentials_FileBeatsEnv(t *testing.T) {
	secrets := writeSecrets(t, `{"api_key": "sk-filefilefilefilefilefile", "base_url": "https://file.example/v1"}`)
	t.Setenv(EnvAPIKey, "sk-enventryenventryenventry")
	t.Setenv(EnvBaseURL, "https://env.example/v1")

	creds, err := LoadCredentialsFromFile("", "", secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-filefilefilefilefilefile", creds.APIKey)
	assert.Equal(t, "https://file.example/v1", creds.BaseURL)
}

func TestLoadCredentials_EnvFallback(t *testing.T) {
	missing := filepath.Join(t.TempDir(), SecretsFileName)
	t.Setenv(EnvAPIKey, "sk-enventryenventryenventry")
	t.Setenv(EnvBaseURL, "https://env.example/v1")

	creds, err := LoadCredentialsFromFile("", "", missing)
	require.NoError(t, err)
	assert.Equal(t, "sk-enventryenventryenventry", creds.APIKey)
	assert.Equal(t, "https://env.example/v1", creds.BaseURL)
}

func TestLoadCredentials_PartialFileFilledFromEnv(t *testing.T) {
	secrets := writeSecrets(t, `{"api_key": "sk-filefilefilefilefilefile"}`)
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "https://env.example/v1")

	creds, err := LoadCredentialsFromFile("", "", secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-filefilefilefilefilefile", creds.APIKey)
	assert.Equal(t, "https://env.example/v1", creds.BaseURL)
}

func TestLoadCredentials_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), SecretsFileName)
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")

	_, err := LoadCredentialsFromFile("", "", missing)
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrMissingCredentials, appErr.Code)
	assert.Equal(t, 1, appErr.Code.ExitCode())
}

func TestLoadCredentials_MalformedSecrets(t *testing.T) {
	secrets := writeSecrets(t, `{not json`)
	t.Setenv(EnvAPIKey, "sk-enventryenventryenventry")
	t.Setenv(EnvBaseURL, "https://env.example/v1")

	_, err := LoadCredentialsFromFile("", "", secrets)
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidConfig, appErr.Code)
}

func TestSettings_Defaults(t *testing.T) {
	mgr, err := NewManager(filepath.Join(t.TempDir(), SettingsFileName))
	require.NoError(t, err)

	settings, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4.1", settings.Model)
	assert.True(t, settings.UI.ColorEnabled)
	assert.True(t, settings.History.Enabled)
	assert.Equal(t, 1000, settings.History.MaxEntries)
}

func TestSettings_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	content := `
model: anthropic/claude-sonnet
ui:
  editor: vim
  color_enabled: false
history:
  enabled: false
  max_entries: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	mgr, err := NewManager(path)
	require.NoError(t, err)

	settings, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-sonnet", settings.Model)
	assert.Equal(t, "vim", settings.UI.Editor)
	assert.False(t, settings.UI.ColorEnabled)
	assert.False(t, settings.History.Enabled)
	assert.Equal(t, 50, settings.History.MaxEntries)
}

func TestSettings_Override(t *testing.T) {
	mgr, err := NewManager(filepath.Join(t.TempDir(), SettingsFileName))
	require.NoError(t, err)

	mgr.SetOverride("model", "mistral/large")

	settings, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "mistral/large", settings.Model)
}

func TestSettings_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\n"), 0600))
	t.Setenv("GITQUILL_MODEL", "from-env")

	mgr, err := NewManager(path)
	require.NoError(t, err)

	settings, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.Model)
}
