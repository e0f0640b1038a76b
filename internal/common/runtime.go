package common

import "runtime/debug"

var (
	// Short VCS revision the binary was built from, "HEAD" when unknown.
	BuildCommit = "HEAD"

	// VCS commit time, "N/A" when unknown.
	BuildTime = "N/A"

	// Set when the working tree had uncommitted changes at build time.
	BuildModified bool
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, bs := range bi.Settings {
		switch bs.Key {
		case "vcs.revision":
			if len(bs.Value) > 7 {
				BuildCommit = bs.Value[:7]
			}
		case "vcs.time":
			BuildTime = bs.Value
		case "vcs.modified":
			BuildModified = bs.Value == "true"
		}
	}
	if BuildModified {
		BuildCommit += "-dirty"
	}
}
