// Package version resolves the tool's version string.
package version

import "runtime/debug"

// Version is set at build time via -ldflags.
var Version = "dev"

// Resolve returns the explicit override when given, otherwise the build-time
// version, otherwise whatever the embedded build info carries.
func Resolve(override string) string {
	if override != "" {
		return override
	}
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
