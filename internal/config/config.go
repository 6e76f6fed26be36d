// Package config holds the cartkit CLI configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/cartdark/cartkit/pkg/cart/scaffold"
	"github.com/cartdark/cartkit/pkg/cart/schema"
	"github.com/cartdark/cartkit/pkg/utils/permissions"
)

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Settings SettingsConfig `koanf:"settings"`
	Scaffold ScaffoldConfig `koanf:"scaffold"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// SettingsConfig locates the persisted IDE settings.
type SettingsConfig struct {
	Path string `koanf:"path"` // YAML settings file; empty keeps settings in memory
}

// ScaffoldConfig holds the defaults used by "cartkit new".
type ScaffoldConfig struct {
	FileMode  string `koanf:"file_mode"` // octal string, e.g. "0644"
	DirMode   string `koanf:"dir_mode"`
	Width     int    `koanf:"width"`
	Height    int    `koanf:"height"`
	Format    string `koanf:"format"`
	Readme    bool   `koanf:"readme"`
	Gitignore bool   `koanf:"gitignore"`
}

var logLevels = []string{"trace", "debug", "info", "warn", "error", "off"}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	display := schema.DefaultDisplay()
	return &Config{
		Log: LogConfig{Level: "warn"},
		Scaffold: ScaffoldConfig{
			FileMode:  permissions.FormatOctal(permissions.DefaultFilePerms),
			DirMode:   permissions.FormatOctal(permissions.DefaultDirPerms),
			Width:     display.Width,
			Height:    display.Height,
			Format:    string(display.PixelFormat),
			Readme:    true,
			Gitignore: true,
		},
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	level := strings.ToLower(c.Log.Level)
	valid := false
	for _, l := range logLevels {
		if l == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("log.level %q must be one of %v", c.Log.Level, logLevels)
	}

	if _, err := c.Scaffold.fileOptions(); err != nil {
		return err
	}
	if err := c.Scaffold.Display().Validate(); err != nil {
		return fmt.Errorf("scaffold: %w", err)
	}
	return nil
}

// Display returns the configured display for new projects.
func (s ScaffoldConfig) Display() schema.Display {
	return schema.Display{
		Width:       s.Width,
		Height:      s.Height,
		PixelFormat: schema.PixelFormat(s.Format),
	}
}

// FileOptions converts the scaffold settings to scaffold.FileOptions.
func (s ScaffoldConfig) FileOptions() scaffold.FileOptions {
	opts, err := s.fileOptions()
	if err != nil {
		return scaffold.DefaultFileOptions()
	}
	return opts
}

func (s ScaffoldConfig) fileOptions() (scaffold.FileOptions, error) {
	fileMode, err := permissions.ParseOctalString(s.FileMode, permissions.DefaultFilePerms)
	if err != nil {
		return scaffold.FileOptions{}, fmt.Errorf("scaffold.file_mode: %w", err)
	}
	dirMode, err := permissions.ParseOctalString(s.DirMode, permissions.DefaultDirPerms)
	if err != nil {
		return scaffold.FileOptions{}, fmt.Errorf("scaffold.dir_mode: %w", err)
	}
	if !permissions.IsDirectory(dirMode) {
		return scaffold.FileOptions{}, fmt.Errorf("scaffold.dir_mode %s lacks owner execute", permissions.FormatOctal(dirMode))
	}
	return scaffold.FileOptions{
		Readme:     s.Readme,
		IgnoreFile: s.Gitignore,
		FileMode:   permissions.FileMode(fileMode),
		DirMode:    permissions.FileMode(dirMode),
	}, nil
}
