package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VersionInfo carries the build metadata stamped in at link time.
type VersionInfo struct {
	Version string
	Commit  string
}

var buildInfo VersionInfo

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clipdex %s (%s)\n", buildInfo.Version, buildInfo.Commit)
		},
	}
}
