package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show registry metadata for a library",
	Long: `Show a library's registry metadata: description, homepage, license,
author, and the newest listed release.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		dir, _ := cmd.Flags().GetString("dir")
		d, err := newDeps(dir)
		if err != nil {
			return err
		}

		meta, err := d.client.Metadata(cmd.Context(), name)
		if err != nil {
			return err
		}
		vl, err := d.client.ListVersions(cmd.Context(), name)
		if err != nil {
			return err
		}

		var md strings.Builder
		fmt.Fprintf(&md, "# %s\n\n", meta.Name)
		if meta.Description != "" {
			fmt.Fprintf(&md, "%s\n\n", meta.Description)
		}
		fmt.Fprintf(&md, "- **Latest**: %s\n", vl.Versions[0])
		if vl.Stable != "" {
			fmt.Fprintf(&md, "- **Stable**: %s\n", vl.Stable)
		}
		if meta.License != "" {
			fmt.Fprintf(&md, "- **License**: %s\n", meta.License)
		}
		if meta.Author != "" {
			fmt.Fprintf(&md, "- **Author**: %s\n", meta.Author)
		}
		if meta.Homepage != "" {
			fmt.Fprintf(&md, "- **Homepage**: %s\n", meta.Homepage)
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			fmt.Fprint(os.Stdout, md.String())
			return nil
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			// Fall back to the raw markdown if the renderer cannot start.
			fmt.Fprint(os.Stdout, md.String())
			return nil
		}
		out, err := r.Render(md.String())
		if err != nil {
			fmt.Fprint(os.Stdout, md.String())
			return nil
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	infoCmd.Flags().StringP("dir", "d", "", "Storage directory (default: configured storageDir)")
	infoCmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")
	rootCmd.AddCommand(infoCmd)
}
