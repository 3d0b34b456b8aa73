package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/loandash/internal/logging"
)

// ErrNoProject is returned when no enclosing project directory is found.
var ErrNoProject = errors.New("no .loandash directory found")

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .loandash directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. LOANDASH_PROJECT_DIR env var
//  3. the nearest directory at or above startDir containing .loandash/config.yaml
//
// Returns an absolute path to the .loandash directory, or "" if no project is found.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	dir, err := FindProjectDir(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoProject) {
			logging.FromContext(ctx).Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return ""
	}
	return dir
}

// FindProjectDir walks up from startDir looking for .loandash/config.yaml
// and returns the .loandash directory.
func FindProjectDir(startDir string) (string, error) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(current, defaultConfigDirName)
		if info, statErr := os.Stat(filepath.Join(candidate, configFileName)); statErr == nil && !info.IsDir() {
			// The global config directory is not a project.
			if globalDir, dirErr := GetConfigDir(); dirErr != nil || filepath.Clean(globalDir) != candidate {
				return candidate, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoProject
		}
		current = parent
	}
}

// toAbsProjectDir converts dir to an absolute path and appends ".loandash".
// A path already ending in ".loandash" is returned as-is after resolving.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == defaultConfigDirName {
		return abs
	}
	return filepath.Join(abs, defaultConfigDirName)
}
