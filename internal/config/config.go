// Package config resolves textpad's settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pluqqy/textpad/pkg/layout"
)

// Setting keys
const (
	KeyLayout     = "layout"
	KeyLogFile    = "log_file"
	KeyStartDir   = "start_dir"
	KeyShowHidden = "show_hidden"
	KeyNoColor    = "no_color"
)

// EnvPrefix prefixes environment overrides, e.g. TEXTPAD_LAYOUT
const EnvPrefix = "TEXTPAD"

// Settings is the resolved configuration
type Settings struct {
	Layout     string `mapstructure:"layout"`
	LogFile    string `mapstructure:"log_file"`
	StartDir   string `mapstructure:"start_dir"`
	ShowHidden bool   `mapstructure:"show_hidden"`
	NoColor    bool   `mapstructure:"no_color"`
}

// DefaultSettings returns the configuration used when nothing is set
func DefaultSettings() *Settings {
	return &Settings{
		Layout: layout.DefaultPath,
	}
}

// New creates a viper instance with textpad's defaults, environment
// binding and config search path
func New() *viper.Viper {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault(KeyLayout, defaults.Layout)
	v.SetDefault(KeyLogFile, defaults.LogFile)
	v.SetDefault(KeyStartDir, defaults.StartDir)
	v.SetDefault(KeyShowHidden, defaults.ShowHidden)
	v.SetDefault(KeyNoColor, defaults.NoColor)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "textpad"))
	}
	return v
}

// BindFlags makes command line flags override config and environment.
// Flag names use dashes; keys use underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		KeyLayout:     "layout",
		KeyLogFile:    "log-file",
		KeyStartDir:   "start-dir",
		KeyShowHidden: "show-hidden",
		KeyNoColor:    "no-color",
	} {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and returns the resolved settings.
// An explicit file path must exist; the default search may find nothing.
func Load(v *viper.Viper, file string) (*Settings, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings := DefaultSettings()
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return settings, nil
}
