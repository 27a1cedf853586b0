package cmd

import (
	"fmt"
	"os"

	"github.com/libvend/libvend/internal/tui"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed library",
	Long: `Remove an installed library: its files, its descriptor, and its entry
in the installed index.

Asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		dir, _ := cmd.Flags().GetString("dir")
		d, err := newDeps(dir)
		if err != nil {
			return err
		}

		rec, err := d.store.Installed(name)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%s is not installed", name)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := tui.Confirm(fmt.Sprintf("Remove %s %s?", name, rec.Version))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Cancelled.")
				return nil
			}
		}

		if err := d.manager.Uninstall(name); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed: %s %s\n", name, rec.Version)
		return nil
	},
}

func init() {
	uninstallCmd.Flags().StringP("dir", "d", "", "Storage directory (default: configured storageDir)")
	uninstallCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}
