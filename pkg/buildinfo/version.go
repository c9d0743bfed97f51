// Package buildinfo reports which meldgrid build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/meldgrid/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/meldgrid/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/meldgrid
//
// Binaries built without ldflags fall back to the module version and VCS
// revision that the Go toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Stamped by ldflags or by cli.SetVersion.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build description served by the HTTP health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build info, filling unstamped fields from the
// toolchain's embedded build settings where possible.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

// String formats the build info on three lines.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
