package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <name>",
	Short: "List a library's registry versions",
	Long: `List a library's versions in the registry's release order, newest
first. The latest-stable tag and the locally installed version are
marked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		dir, _ := cmd.Flags().GetString("dir")
		d, err := newDeps(dir)
		if err != nil {
			return err
		}

		vl, err := d.client.ListVersions(cmd.Context(), name)
		if err != nil {
			return err
		}

		installed := ""
		if rec, recErr := d.store.Installed(name); recErr == nil && rec != nil {
			installed = rec.Version
		}

		for _, v := range vl.Versions {
			line := v
			if v == vl.Stable {
				line += "  (stable)"
			}
			if installed != "" && v == installed {
				line += "  (installed)"
			}
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}

func init() {
	versionsCmd.Flags().StringP("dir", "d", "", "Storage directory (default: configured storageDir)")
	rootCmd.AddCommand(versionsCmd)
}
