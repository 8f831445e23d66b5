// Package buildinfo exposes version metadata stamped at link time:
//
//	go build -ldflags "-X github.com/skosovsky/toolbox/internal/buildinfo.Version=v1.2.0"
package buildinfo

import "runtime/debug"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the version metadata reported by the CLI and the root endpoint.
type Info struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build metadata, falling back to the VCS revision recorded by the
// Go toolchain when Commit was not stamped.
func Get() Info {
	info := Info{Name: "toolbox", Version: Version, Commit: Commit, Date: Date}
	if info.Commit != "unknown" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				if info.Date == "unknown" {
					info.Date = s.Value
				}
			}
		}
	}
	return info
}
