package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/libvend/libvend/internal/core"
	"github.com/libvend/libvend/internal/tui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <name>[@version]",
	Short: "Install a library from the registry",
	Long: `Install a library's scripts and stylesheets from the registry.

The version part of the argument may be a concrete version, "latest"
(the newest listed release, pre-releases included), or "stable" (the
registry's latest-stable tag). Omitting it means latest.

By default the matching assets are downloaded into the storage directory
under <name>-<version>/js/ and <name>-<version>/css/. With --remote no
files are downloaded; the descriptor references the CDN instead.

Variant flags narrow which assets match:
  --minified      .min builds (default)
  --bundle        bundled builds
  --lite          lite builds
  --rtl           right-to-left stylesheets

Either way a <name>.libvend.yaml descriptor is written next to the
installed files for downstream templating.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, target := splitLibrarySpec(args[0])

		dir, _ := cmd.Flags().GetString("dir")
		d, err := newDeps(dir)
		if err != nil {
			return err
		}

		pick, _ := cmd.Flags().GetBool("pick")
		if pick {
			target, err = pickVersion(cmd, d, name)
			if err != nil {
				if errors.Is(err, tui.ErrPickerCancelled) {
					fmt.Fprintln(os.Stdout, "Cancelled.")
					return nil
				}
				return err
			}
		}

		dep, err := d.manager.Install(cmd.Context(), name, target, selectionFromFlags(cmd))
		if err != nil {
			return err
		}

		printDependency(dep)
		return nil
	},
}

// pickVersion fetches the registry's version list and lets the user choose
// interactively.
func pickVersion(cmd *cobra.Command, d *deps, name string) (string, error) {
	vl, err := d.client.ListVersions(cmd.Context(), name)
	if err != nil {
		return "", err
	}

	installed := ""
	if rec, recErr := d.store.Installed(name); recErr == nil && rec != nil {
		installed = rec.Version
	}

	return tui.PickVersion(name, vl.Versions, vl.Stable, installed)
}

// printDependency reports an installed dependency on stdout.
func printDependency(dep *core.Dependency) {
	fmt.Fprintf(os.Stdout, "Installed: %s %s (%s)\n", dep.Name, dep.Version, dep.Mode)
	if len(dep.Scripts) > 0 {
		fmt.Fprintf(os.Stdout, "  Scripts: %s\n", joinStrings(dep.Scripts))
	}
	if len(dep.Stylesheets) > 0 {
		fmt.Fprintf(os.Stdout, "  Stylesheets: %s\n", joinStrings(dep.Stylesheets))
	}
	if dep.RemoteBase != "" {
		fmt.Fprintf(os.Stdout, "  Base: %s\n", dep.RemoteBase)
	}
}

func init() {
	addSelectionFlags(installCmd)
	installCmd.Flags().BoolP("pick", "p", false, "Pick the version interactively")
	rootCmd.AddCommand(installCmd)
}
