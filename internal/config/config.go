package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/trybuild/internal/branding"
	"github.com/agentx-labs/trybuild/internal/dependencies"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeySelfName     = "self_name"
	KeyManifestName = "manifest_name"
	KeyLogLevel     = "log_level"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	SelfName     string
	ManifestName string
	LogLevel     string
}

// Loader returns a dependencies.Loader configured from s.
func (s Settings) Loader() dependencies.Loader {
	return dependencies.Loader{ManifestName: s.ManifestName, SelfName: s.SelfName}
}

// Dir returns the path to the config directory. TRYBUILD_HOME overrides the
// default of ~/.trybuild/.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeySelfName, dependencies.SelfName)
	viper.SetDefault(KeyManifestName, dependencies.ManifestName)
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the typed settings from the loaded configuration.
func Current() Settings {
	return Settings{
		SelfName:     viper.GetString(KeySelfName),
		ManifestName: viper.GetString(KeyManifestName),
		LogLevel:     viper.GetString(KeyLogLevel),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
