package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loandash/internal/config"
)

// writeProjectConfig creates dir/.loandash/config.yaml and returns the .loandash path.
func writeProjectConfig(t *testing.T, dir string) string {
	t.Helper()
	projectDir := filepath.Join(dir, ".loandash")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte("output:\n  default_format: json\n"), 0o600))
	return projectDir
}

func TestResolveProjectDir_FlagOverride(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, filepath.Join(flagDir, ".loandash"), got)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveProjectDir_FlagAlreadyProjectDir(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	flagDir := filepath.Join(t.TempDir(), ".loandash")

	got := config.ResolveProjectDir(context.Background(), flagDir, "")

	assert.Equal(t, flagDir, got)
}

func TestResolveProjectDir_EnvVar(t *testing.T) {
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")

	assert.Equal(t, filepath.Join(envDir, ".loandash"), got)
}

func TestResolveProjectDir_Discovery(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvHome, t.TempDir())
	root := t.TempDir()
	want := writeProjectConfig(t, root)
	nested := filepath.Join(root, "reports", "2025")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got := config.ResolveProjectDir(context.Background(), "", nested)

	assert.Equal(t, want, got)
}

func TestResolveProjectDir_NoProject(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvHome, t.TempDir())

	got := config.ResolveProjectDir(context.Background(), "", t.TempDir())

	assert.Empty(t, got)
}

func TestFindProjectDir_SkipsGlobalDir(t *testing.T) {
	root := t.TempDir()
	global := writeProjectConfig(t, root)
	t.Setenv(config.EnvHome, global)

	_, err := config.FindProjectDir(root)

	require.ErrorIs(t, err, config.ErrNoProject)
}

func TestNew_MergesProjectConfig(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvOutputFormat, "")
	projectDir := writeProjectConfig(t, t.TempDir())

	config.SetResolvedProjectDir(projectDir)
	t.Cleanup(func() { config.SetResolvedProjectDir("") })

	assert.Equal(t, projectDir, config.GetResolvedProjectDir())
	cfg := config.New()
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
}
