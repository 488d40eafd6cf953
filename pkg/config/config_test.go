package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("koans", pflag.ContinueOnError)
	fs.String("fixtures-dir", "", "")
	fs.Bool("stop-on-first-failure", false, "")
	fs.String("format", "", "")
	fs.String("log-level", "", "")
	fs.Duration("debounce", 0, "")
	return fs
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "fixtures", cfg.FixturesDir)
	assert.True(t, cfg.StopOnFirstFailure)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Color)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
fixtures_dir: testdata
stop_on_first_failure: false
format: yaml
path_file: path.yaml
color: false
summary_dir: out
watch:
  debounce: 1s
log:
  level: debug
  file: koans.log
`)

	cfg, err := LoadFromPath(path, nil)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		FixturesDir:        "testdata",
		StopOnFirstFailure: false,
		Format:             "yaml",
		PathFile:           "path.yaml",
		Color:              false,
		SummaryDir:         "out",
		Watch:              WatchConfig{Debounce: time.Second},
		Log:                LogConfig{Level: "debug", File: "koans.log"},
	}, cfg)
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadFromPath_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("fixtures_dir: elsewhere\nformat: yaml\n"), 0o644,
	))

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--fixtures-dir", "from-flag"}))

	cfg, err := LoadFromPath(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "from-flag", cfg.FixturesDir)
}

func TestLoad_FindsProjectConfigInParent(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "format: json\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format: json\nfixtures_dir: from-file\nlog:\n  level: warn\n")

	t.Setenv("KOANS_FIXTURES_DIR", "from-env")
	t.Setenv("KOANS_LOG_LEVEL", "error")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--format", "yaml"}))

	cfg, err := Load(dir, flags)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format, "flag beats file")
	assert.Equal(t, "from-env", cfg.FixturesDir, "env beats file")
	assert.Equal(t, "error", cfg.Log.Level, "nested keys use underscores")
	assert.True(t, cfg.StopOnFirstFailure, "unset flag keeps default")
}

func TestLoad_FlagOverridesBoolAndDuration(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{
		"--stop-on-first-failure=false", "--debounce", "750ms",
	}))

	cfg, err := Load(t.TempDir(), flags)
	require.NoError(t, err)
	assert.False(t, cfg.StopOnFirstFailure)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format: html\n")

	_, err := Load(dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be text, json or yaml")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.FixturesDir = ""
	cfg.Watch.Debounce = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixtures_dir")
	assert.Contains(t, err.Error(), "debounce")
	assert.Contains(t, err.Error(), "loud")
}
