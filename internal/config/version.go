package config

import (
	"os"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X txgraph/internal/config.Version=..."
var Version = ""

// GetVersion returns the version from APP_VERSION, the build flag, or module build info
func GetVersion() string {
	// First try to get version from environment variable (set by CI/CD)
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "0.1.0-dev"
}
