package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supabase-community/pg-parser/internal/cli/config"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "pgparser", cmd.Name())
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	want := []string{
		"version", "parse", "deparse", "scan", "check",
		"convert", "repl", "serve", "completion",
	}
	got := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		got[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "subcommand %q should be registered", name)
	}

	for _, flag := range []string{"config", "log-level", "log-format", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}

func TestRootVersionFlag(t *testing.T) {
	config.ResetConfig()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "pgparser")
	assert.Contains(t, out.String(), "parse tree schema version")
}

func TestRootRunsSubcommand(t *testing.T) {
	config.ResetConfig()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "pgparser v")
}

func TestRootRejectsBadFlagValue(t *testing.T) {
	config.ResetConfig()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--log-level", "loud", "version"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}
