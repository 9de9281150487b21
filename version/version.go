package version

import (
	"fmt"
	"runtime"
)

// Version and BuildDate are overridden at link time with -ldflags "-X".
var Version = "0.1.0"
var BuildDate = "2026-10-01"

// Info is the build information reported by the CLI and the API.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build"`
	GoVersion string `json:"go"`
}

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}

func Get() Info {
	return Info{Version: Version, BuildDate: BuildDate, GoVersion: runtime.Version()}
}

func (i Info) String() string {
	return fmt.Sprintf("dsgen %s (built %s, %s)", i.Version, i.BuildDate, i.GoVersion)
}
