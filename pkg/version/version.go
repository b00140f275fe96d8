// Package version holds build information, set via ldflags or read from the
// embedded module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		v := buildInfo.Main.Version
		if v != "" && v != "(devel)" {
			return v
		}
	}

	return Revision
}

// String returns the one-line version banner, e.g. "prompter v1.2.3".
func String() string {
	return "prompter " + GetVersion()
}

// Details returns a multi-line description of the build.
func Details() string {
	s := fmt.Sprintf("%s\n  revision: %s\n  go: %s %s/%s\n",
		String(), Revision, GoVersion, GoArch, GoOS)

	if BuildDate != "" {
		s += fmt.Sprintf("  built: %s", BuildDate)
		if BuildUser != "" {
			s += " by " + BuildUser
		}

		s += "\n"
	}

	if Branch != "" {
		s += fmt.Sprintf("  branch: %s\n", Branch)
	}

	return s
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			if len(v.Value) > 7 {
				rev = v.Value[:7]
			} else {
				rev = v.Value
			}

		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
