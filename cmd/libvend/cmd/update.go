package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/libvend/libvend/internal/core"
	"github.com/libvend/libvend/internal/tui"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <name>[@version]",
	Short: "Move an installed library to another version",
	Long: `Move an installed library to another version and classify the move.

The target may be a concrete version, "latest" (the default), or
"stable". The move is an upgrade or a downgrade depending on where the
target sits in the registry's release order relative to the installed
version. Updating to the already-installed version is rejected.

The new version replaces the old one: the previous version's files are
removed and the descriptor is rewritten.`,
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

		res, err := d.manager.Update(cmd.Context(), name, target, selectionFromFlags(cmd))
		if err != nil {
			return err
		}

		verb := "Upgraded"
		if res.Direction == core.DirectionDowngrade {
			verb = "Downgraded"
		}
		fmt.Fprintf(os.Stdout, "%s: %s %s -> %s\n", verb, name, res.Previous, res.Dependency.Version)
		return nil
	},
}

func init() {
	addSelectionFlags(updateCmd)
	updateCmd.Flags().BoolP("pick", "p", false, "Pick the version interactively")
	rootCmd.AddCommand(updateCmd)
}
