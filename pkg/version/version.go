// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/Dicklesworthstone/review_viewer/pkg/version.Version=v1.2.3".
package version

// Version is the current rv release
var Version = "v0.1.0"
