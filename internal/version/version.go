// internal/version/version.go
package version

// Version is overridden at build time with
// -ldflags "-X protfa/internal/version.Version=...".
var Version = "0.0.0-dev"
