// Package version reports which build of hailstone is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is stamped at build time, for example:
// go build -ldflags "-X github.com/vsariola/hailstone/version.Version=$(git describe --dirty)" ./cmd/hailstone
var Version string

// Revision is the short VCS revision of the build, with a "-dirty" suffix for
// modified trees, or "" when the binary carries no VCS information.
var Revision = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}()

func revision(settings []debug.BuildSetting) string {
	var rev string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}

// Short is Version if it was stamped, otherwise Revision, otherwise "devel".
func Short() string {
	switch {
	case Version != "":
		return Version
	case Revision != "":
		return Revision
	}
	return "devel"
}

// String describes the build in one line.
func String() string {
	return fmt.Sprintf("hailstone %s (%s, %s/%s)", Short(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
