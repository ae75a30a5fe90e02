// SPDX-License-Identifier: MIT
//
// Package build carries build metadata injected at compile time via
// -ldflags, for example:
//
//	go build -ldflags "-X jackcat/pkg/build.buildVersion=0.2.0"
//
// Unset flags fall back to development defaults so the binary also
// works when built with a plain "go build".
package build

type ldFlags struct {
	Name    string // Application name
	Time    string // Build timestamp
	Commit  string // Git commit hash
	Version string // Semantic version
}

// Package-level variables for build information. These are populated
// by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "jackcat",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies any build information set through ldflags into the
// buildFlags struct. Call once, early in program startup.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
