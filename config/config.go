// Package config loads termpix configuration from file, environment, and
// defaults via Viper. Precedence: explicit file, then TERMPIX_* environment
// variables, then built-in defaults.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for termpix.
type Config struct {
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Device DeviceConfig `mapstructure:"device" yaml:"device"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// RenderConfig tunes the differential renderer.
type RenderConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// Debounce returns the pointer-movement coalescing window.
func (r RenderConfig) Debounce() time.Duration {
	return time.Duration(r.DebounceMS) * time.Millisecond
}

// DeviceConfig selects and sizes the output backend.
type DeviceConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`
	ColorMode string `mapstructure:"color_mode" yaml:"color_mode"`
	VcsaPath  string `mapstructure:"vcsa_path" yaml:"vcsa_path"`
	Cols      int    `mapstructure:"cols" yaml:"cols"`
	Rows      int    `mapstructure:"rows" yaml:"rows"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// Loader wraps Viper configuration loading for termpix.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader initializes a Loader with standard defaults registered, so
// environment overrides reach every key even without a config file.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("TERMPIX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/" + DefaultConfigDirName)

	def := DefaultConfig()
	v.SetDefault("render.debounce_ms", def.Render.DebounceMS)
	v.SetDefault("device.backend", def.Device.Backend)
	v.SetDefault("device.color_mode", def.Device.ColorMode)
	v.SetDefault("device.vcsa_path", def.Device.VcsaPath)
	v.SetDefault("device.cols", def.Device.Cols)
	v.SetDefault("device.rows", def.Device.Rows)
	v.SetDefault("log.file", def.Log.File)

	return &Loader{v: v}
}

// Viper exposes the underlying Viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = strings.TrimSpace(path)
}

// ReadInConfig reads configuration from file if available. A missing file
// on the search path is not an error; a missing explicit file is.
func (l *Loader) ReadInConfig() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads configuration and unmarshals it into a Config struct.
func (l *Loader) Load() (Config, error) {
	if err := l.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
