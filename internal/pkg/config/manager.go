package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

const (
	// SecretsFileName is the name of the credentials file under the
	// per-user config directory.
	SecretsFileName = "secrets.json"

	// SettingsFileName is the name of the optional settings file.
	SettingsFileName = "config.yaml"

	// EnvAPIKey and EnvBaseURL are the environment fallbacks for the
	// two credential values.
	EnvAPIKey  = "GITQUILL_API_KEY"
	EnvBaseURL = "GITQUILL_BASE_URL"
)

// ConfigDir returns the per-user gitquill configuration directory.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gitquill"), nil
}

// LoadCredentials resolves API credentials. Precedence: explicit values
// (flags) > secrets file > environment variables. Returns a fatal
// configuration error when either value is still missing afterwards.
func LoadCredentials(apiKey, baseURL string) (*Credentials, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to locate config directory")
	}
	return LoadCredentialsFromFile(apiKey, baseURL, filepath.Join(dir, SecretsFileName))
}

// LoadCredentialsFromFile is LoadCredentials with an explicit secrets path,
// used by tests.
func LoadCredentialsFromFile(apiKey, baseURL, secretsPath string) (*Credentials, error) {
	if apiKey == "" || baseURL == "" {
		fileKey, fileURL, err := readSecretsFile(secretsPath)
		if err != nil {
			return nil, err
		}
		if apiKey == "" {
			apiKey = fileKey
		}
		if baseURL == "" {
			baseURL = fileURL
		}
	}

	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}

	if apiKey == "" || baseURL == "" {
		return nil, apperrors.NewMissingCredentialsError()
	}

	return &Credentials{APIKey: apiKey, BaseURL: baseURL}, nil
}

// readSecretsFile parses the JSON secrets file if it exists. A missing
// file is not an error; the environment fallback still applies.
func readSecretsFile(secretsPath string) (apiKey, baseURL string, err error) {
	if _, statErr := os.Stat(secretsPath); statErr != nil {
		return "", "", nil
	}

	v := viper.New()
	v.SetConfigFile(secretsPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return "", "", apperrors.Wrap(err, apperrors.ErrInvalidConfig,
			fmt.Sprintf("failed to parse secrets file %s", secretsPath))
	}

	return v.GetString("api_key"), v.GetString("base_url"), nil
}

// Manager defines the interface for settings management.
type Manager interface {
	Load() (*Settings, error)
	SettingsPath() string
}

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v            *viper.Viper
	settingsPath string
}

// NewManager creates a new settings manager. If settingsPath is empty,
// the default per-user path is used.
func NewManager(settingsPath string) (*ViperManager, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if settingsPath == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		settingsPath = filepath.Join(dir, SettingsFileName)
	}
	v.SetConfigFile(settingsPath)

	v.SetEnvPrefix("GITQUILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:            v,
		settingsPath: settingsPath,
	}, nil
}

// bindEnvVars explicitly binds environment variables for all settings keys.
// Viper's AutomaticEnv doesn't work well with nested keys.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("model", "GITQUILL_MODEL")
	_ = v.BindEnv("ui.editor", "GITQUILL_UI_EDITOR")
	_ = v.BindEnv("ui.color_enabled", "GITQUILL_UI_COLOR_ENABLED")
	_ = v.BindEnv("history.enabled", "GITQUILL_HISTORY_ENABLED")
	_ = v.BindEnv("history.max_entries", "GITQUILL_HISTORY_MAX_ENTRIES")
	_ = v.BindEnv("history.file_path", "GITQUILL_HISTORY_FILE_PATH")
}

// setDefaults sets the default settings values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("model", "openai/gpt-4.1")
	v.SetDefault("ui.editor", "")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)

	dir, err := ConfigDir()
	if err == nil {
		v.SetDefault("history.file_path", filepath.Join(dir, "history.json"))
	}
}

// SettingsPath returns the path to the settings file.
func (m *ViperManager) SettingsPath() string {
	return m.settingsPath
}

// Load loads the settings from file, environment, and defaults.
// Priority: flags > env > file > defaults.
func (m *ViperManager) Load() (*Settings, error) {
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read settings file: %w", err)
			}
		}
	}

	var settings Settings
	if err := m.v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

// SetOverride sets a temporary override for a settings key. Used for
// command-line flag overrides that shouldn't persist.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}
