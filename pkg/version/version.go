// Package version exposes build-time version metadata.
package version

// RulegenVersion is the semantic version string embedded at build time.
var RulegenVersion = "0.0.0-src"

// Set version at compile time with
// go build -ldflags "-X rulegen/pkg/version.RulegenVersion=1.0.0" -o rulegen
