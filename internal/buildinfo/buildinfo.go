// Package buildinfo is set at link time with -ldflags "-X".
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("co2fit %s (commit=%s, date=%s, %s)", Version, Commit, Date, runtime.Version())
}
