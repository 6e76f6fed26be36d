package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartdark/cartkit/pkg/cart/schema"
)

// isolate points the user config directory at a temp dir and clears the
// environment overrides this package reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"CARTKIT_LOG_LEVEL", "CARTKIT_LOG_JSON", "CARTKIT_SETTINGS_PATH",
		"CARTKIT_SCAFFOLD_FILE_MODE", "CARTKIT_SCAFFOLD_DIR_MODE",
		"CARTKIT_SCAFFOLD_WIDTH", "CARTKIT_SCAFFOLD_HEIGHT", "CARTKIT_SCAFFOLD_FORMAT",
		"CARTKIT_SCAFFOLD_README", "CARTKIT_SCAFFOLD_GITIGNORE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Log, cfg.Log)
	assert.Equal(t, want.Scaffold, cfg.Scaffold)
	assert.Equal(t, "settings.yaml", filepath.Base(cfg.Settings.Path))
	assert.Equal(t, schema.DefaultDisplay(), cfg.Scaffold.Display())

	opts := cfg.Scaffold.FileOptions()
	assert.True(t, opts.Readme)
	assert.True(t, opts.IgnoreFile)
	assert.Equal(t, os.FileMode(0o644), opts.FileMode)
	assert.Equal(t, os.FileMode(0o755), opts.DirMode)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `log:
  level: info
settings:
  path: /tmp/cartkit-settings.yaml
scaffold:
  file_mode: "0600"
  width: 1024
  height: 600
  format: RGB565
  readme: false
`)
	t.Setenv("CARTKIT_LOG_LEVEL", "debug")
	t.Setenv("CARTKIT_SCAFFOLD_DIR_MODE", "0700")
	t.Setenv("CARTKIT_SCAFFOLD_GITIGNORE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level, "env wins over the file")
	assert.Equal(t, "/tmp/cartkit-settings.yaml", cfg.Settings.Path)
	assert.Equal(t, schema.Display{Width: 1024, Height: 600, PixelFormat: schema.PixelRGB565}, cfg.Scaffold.Display())

	opts := cfg.Scaffold.FileOptions()
	assert.False(t, opts.Readme)
	assert.False(t, opts.IgnoreFile)
	assert.Equal(t, os.FileMode(0o600), opts.FileMode)
	assert.Equal(t, os.FileMode(0o700), opts.DirMode)
}

func TestLoadJSONLogFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CARTKIT_LOG_JSON", "1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Log.JSON, "the variable the logging package reads also drives log.json")
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad_level", content: "log:\n  level: loud\n"},
		{name: "bad_file_mode", content: "scaffold:\n  file_mode: \"0999\"\n"},
		{name: "setgid_dir_mode", content: "scaffold:\n  dir_mode: \"2755\"\n"},
		{name: "dir_mode_not_traversable", content: "scaffold:\n  dir_mode: \"0600\"\n"},
		{name: "too_wide", content: "scaffold:\n  width: 5000\n"},
		{name: "bad_format", content: "scaffold:\n  format: YUV\n"},
		{name: "bad_yaml", content: "log: [\n"},
		{name: "env_height", content: "", env: map[string]string{"CARTKIT_SCAFFOLD_HEIGHT": "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadDefaultFileIsPickedUp(t *testing.T) {
	isolate(t)
	dir, err := DefaultDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: error\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestEnvKey(t *testing.T) {
	testCases := map[string]string{
		"CARTKIT_LOG_LEVEL":          "log.level",
		"CARTKIT_LOG_JSON":           "log.json",
		"CARTKIT_SCAFFOLD_FILE_MODE": "scaffold.file_mode",
		"CARTKIT_SETTINGS_PATH":      "settings.path",
		"CARTKIT_VERBOSE":            "verbose",
	}
	for in, want := range testCases {
		assert.Equal(t, want, envKey(in), in)
	}
}
