package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/petroval/wellecon/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
		fmt.Printf("  econ:       %s\n", version.Econ)
		fmt.Printf("  timing:     %s\n", version.Timing)
		fmt.Printf("  formations: %s\n", version.Formations)
		fmt.Printf("  ipgrid:     %s\n", version.IPGrid)
		fmt.Printf("  fit:        %s\n", version.Fit)
		fmt.Printf("  Go Version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
