package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/libvend/libvend/internal/core"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed libraries",
	Long: `Show every installed library in the storage directory: version, source
mode, and the asset paths its descriptor records.

With --outdated each library's version is also checked against the
registry's newest listed release.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		d, err := newDeps(dir)
		if err != nil {
			return err
		}

		installed, err := d.store.InstalledAll()
		if err != nil {
			return err
		}
		if len(installed) == 0 {
			fmt.Fprintf(os.Stdout, "No libraries installed in %s.\n", d.store.Root())
			return nil
		}

		outdated, _ := cmd.Flags().GetBool("outdated")

		fmt.Fprintf(os.Stdout, "Storage: %s\n\n", d.store.Root())
		for _, lib := range installed {
			marker := ""
			if outdated {
				marker = outdatedMarker(cmd, d, lib)
			}
			fmt.Fprintf(os.Stdout, "%s %s (%s)%s\n", lib.Name, lib.Version, lib.Mode, marker)

			dep, depErr := core.ReadDescriptor(d.store.Root(), lib.Name)
			if depErr != nil {
				fmt.Fprintf(os.Stdout, "  (descriptor missing)\n")
				continue
			}
			if len(dep.Scripts) > 0 {
				fmt.Fprintf(os.Stdout, "  Scripts: %s\n", joinStrings(dep.Scripts))
			}
			if len(dep.Stylesheets) > 0 {
				fmt.Fprintf(os.Stdout, "  Stylesheets: %s\n", joinStrings(dep.Stylesheets))
			}
		}
		return nil
	},
}

// outdatedMarker checks one library against the registry. Lookup failures
// degrade to an unknown marker rather than failing the listing.
func outdatedMarker(cmd *cobra.Command, d *deps, lib core.InstalledLibrary) string {
	vl, err := d.client.ListVersions(cmd.Context(), lib.Name)
	if err != nil {
		if errors.Is(err, core.ErrLibraryNotFound) {
			return "  [not in registry]"
		}
		return "  [registry unreachable]"
	}
	if len(vl.Versions) > 0 && vl.Versions[0] != lib.Version {
		return fmt.Sprintf("  [latest: %s]", vl.Versions[0])
	}
	return "  [up to date]"
}

func init() {
	statusCmd.Flags().StringP("dir", "d", "", "Storage directory (default: configured storageDir)")
	statusCmd.Flags().Bool("outdated", false, "Check installed versions against the registry")
	rootCmd.AddCommand(statusCmd)
}
