// Package version holds the canonical version of stacksynth.
package version

import (
	"fmt"

	version "github.com/hashicorp/go-version"
)

// Version is the main version number being run, following semantic
// versioning.
var Version = "0.3.0"

// Prerelease is a marker for the version, such as "dev" for development
// builds. Empty for releases.
var Prerelease = "dev"

// SemVer is Version parsed once, so callers can use the comparison
// helpers without re-parsing.
var SemVer *version.Version

func init() {
	SemVer = version.Must(version.NewVersion(Version))
}

// String returns the complete version string, including the prerelease.
func String() string {
	if Prerelease != "" {
		return fmt.Sprintf("%s-%s", Version, Prerelease)
	}
	return Version
}
