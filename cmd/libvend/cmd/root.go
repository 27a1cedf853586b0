package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "libvend",
	Short: "Vendor front-end libraries from a package registry",
	Long: `Libvend installs front-end libraries (scripts and stylesheets) from a
package registry into a project-local storage folder.

Pick a variant (minified, bundle, lite, rtl), keep the files locally or
reference them from the CDN, and upgrade or downgrade installed versions
against the registry's release order - all from a single tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("libvend %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
