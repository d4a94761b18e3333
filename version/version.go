// Package version reports how the rangelink binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time with -ldflags "-X github.com/teranos/rangelink/version.Version=..."
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = "unknown"
)

// Info describes the running binary
type Info struct {
	Version    string `json:"version" yaml:"version"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the build information, falling back to the VCS stamp the Go
// toolchain embeds when no commit was injected.
func Get() Info {
	commit := CommitHash
	if commit == "" {
		commit = vcsRevision()
	}
	return Info{
		Version:    Version,
		CommitHash: commit,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}

// Short returns the first seven characters of the commit
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

func (i Info) String() string {
	return fmt.Sprintf("rangelink %s (commit %s, built %s, %s %s)", i.Version, i.Short(), i.BuildTime, i.GoVersion, i.Platform)
}
