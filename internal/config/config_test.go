package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultColor, cfg.Color)
	assert.Equal(t, DefaultDebounceMS, cfg.DebounceMS)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arduinocc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: table\nverbose: true\ndebounce_ms: 500\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.Format)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 500, cfg.DebounceMS)
	assert.Equal(t, DefaultColor, cfg.Color, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arduinocc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: table\n"), 0o600))

	t.Setenv("ARDUINOCC_FORMAT", "text")
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("ARDUINOCC_COLOR", "never")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("color", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--color", "always"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "always", cfg.Color, "changed flags win")
	assert.False(t, cfg.Verbose, "unchanged flags do not override")
}
