// Package version exposes the build version of loandash.
package version

// version is set at build time with -ldflags "-X github.com/rshade/loandash/pkg/version.version=...".
var version = "dev" //nolint:gochecknoglobals // Overridden by the linker.

// GetVersion returns the build version.
func GetVersion() string {
	if version == "" {
		return "dev"
	}
	return version
}
