package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/ternarybob/ragkit/internal/common.Version=..."
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the ldflags version, falling back to the module
// version recorded by go install
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s, %s)", GetVersion(), Build, GitCommit, runtime.Version())
}
