package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("translator v%s %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
		if version.Commit != "none" {
			fmt.Printf("commit %s, built %s\n", version.Commit, version.Date)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
