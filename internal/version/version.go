package version

import "fmt"

// Set with -ldflags "-X github.com/ericogr/creature-arena/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Info is the build metadata reported by the server and the simulator.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Dirty   string `json:"dirty"`
}

func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Dirty: Dirty}
}

func (i Info) String() string {
	s := fmt.Sprintf("%s (%s)", i.Version, i.Commit)
	if i.Dirty == "true" {
		s += " dirty"
	}
	return s
}
