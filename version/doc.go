// Package version reports build metadata for the entropy CLI.
//
// Values come from, in order of preference:
//   - variables set at link time with -ldflags
//   - the module and VCS information in debug.ReadBuildInfo()
//   - development defaults
//
// Release builds set them with:
//
//	-ldflags "-X github.com/dendrascience/entropy-scan/version.Version=v1.0.0 -X github.com/dendrascience/entropy-scan/version.Commit=abc123 -X github.com/dendrascience/entropy-scan/version.Date=2026-01-01T00:00:00Z"
package version
