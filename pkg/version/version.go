// Package version exposes the Fleetward build's version metadata.
package version

// Overridden at release time through -ldflags; "dev" for local builds.
//
//nolint:gochecknoglobals // ldflags injection targets
var (
	version = "dev"
	buildID = "dev"
)

// GetVersion reports the release version.
func GetVersion() string {
	return version
}

// GetBuildID reports the build identifier.
func GetBuildID() string {
	return buildID
}

// GetFullVersion combines the version and build identifier for display.
func GetFullVersion() string {
	return version + " (build: " + buildID + ")"
}
