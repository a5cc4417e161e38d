// Package version reports what build of atelier is running
package version

import (
	"runtime"
	"runtime/debug"
	"sync"
)

// BuildInfo holds version information about a build
type BuildInfo struct {
	Service   string `json:"service" example:"atelier-api"`
	Version   string `json:"version" example:"v0.4.0"`
	Commit    string `json:"commit" example:"9f1c2ab"`
	Date      string `json:"date" example:"2024-05-01T09:00:00Z"`
	GoVersion string `json:"go_version" example:"go1.24.2"`
	Modified  bool   `json:"modified,omitempty"`
}

// Set at build time:
//
//	-ldflags "-X 'atelier/internal/core/version.version=v0.4.0' -X 'atelier/internal/core/version.commit=9f1c2ab' -X 'atelier/internal/core/version.date=2024-05-01'"
//
// when commit is not set the vcs stamp written by the go tool is used instead
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	vcsOnce sync.Once
	vcs     struct {
		revision string
		time     string
		modified bool
	}
)

func readVCS() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			vcs.revision = s.Value
		case "vcs.time":
			vcs.time = s.Value
		case "vcs.modified":
			vcs.modified = s.Value == "true"
		}
	}
}

// Info returns the build information of the named service
func Info(service string) BuildInfo {
	b := BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
	if b.Commit != "none" {
		return b
	}
	vcsOnce.Do(readVCS)
	if vcs.revision != "" {
		b.Commit = short(vcs.revision)
		b.Modified = vcs.modified
		if b.Date == "unknown" && vcs.time != "" {
			b.Date = vcs.time
		}
	}
	return b
}

func short(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
