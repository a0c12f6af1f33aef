// Package buildinfo reports the version of the running binary.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

// Version metadata is injected at build time via ldflags:
//
//	-X github.com/euforicio/wikigen/internal/buildinfo.Version=v1.2.3
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Summary returns "version (commit date)". When no ldflags were given it falls back to
// the module version and VCS stamp recorded by the Go toolchain.
func Summary() string {
	version, commit, date := Version, Commit, Date
	if version == "" || version == "dev" {
		version = "dev"
		if info, ok := debug.ReadBuildInfo(); ok {
			if v := info.Main.Version; v != "" && v != "(devel)" {
				version = v
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					if commit == "" {
						commit = shortRevision(s.Value)
					}
				case "vcs.time":
					if date == "" {
						date = s.Value
					}
				}
			}
		}
	}
	return format(version, commit, date)
}

func format(version, commit, date string) string {
	var b strings.Builder
	b.WriteString(version)
	var extra []string
	if commit != "" {
		extra = append(extra, commit)
	}
	if date != "" {
		extra = append(extra, date)
	}
	if len(extra) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(extra, " "))
		b.WriteString(")")
	}
	return b.String()
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
