package version

import "runtime/debug"

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
)

type Info struct {
	Version string
	Commit  string
	Dirty   bool
}

// Resolve returns the build identity, preferring -ldflags overrides and
// falling back to the module build info embedded by the Go linker.
func Resolve() Info {
	resolved := Info{
		Version: Version,
		Commit:  Commit,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		if resolved.Version == "" {
			resolved.Version = "devel"
		}
		return resolved
	}

	if resolved.Version == "" {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			resolved.Version = v
		} else {
			resolved.Version = "devel"
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if resolved.Commit == "" {
				resolved.Commit = s.Value
			}
		case "vcs.modified":
			resolved.Dirty = s.Value == "true"
		}
	}
	return resolved
}

func String() string {
	info := Resolve()
	out := info.Version
	if info.Commit != "" {
		out += " (" + shortCommit(info.Commit) + ")"
	}
	if info.Dirty {
		out += " dirty"
	}
	return out
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
