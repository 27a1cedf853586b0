package cmd

import (
	"strings"

	"github.com/libvend/libvend/internal/core"
	"github.com/spf13/cobra"
)

// splitLibrarySpec splits "name" or "name@target" into its parts. The last
// "@" is the delimiter so scoped names ("@acme/widgets@2.0.0") resolve
// correctly; a lone leading "@" belongs to the scope.
func splitLibrarySpec(spec string) (name, target string) {
	at := strings.LastIndex(spec, "@")
	if at <= 0 {
		return spec, ""
	}
	return spec[:at], spec[at+1:]
}

// addSelectionFlags registers the asset variant flags shared by install and
// update.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("minified", true, "Prefer minified assets")
	cmd.Flags().Bool("bundle", false, "Prefer bundled assets")
	cmd.Flags().Bool("lite", false, "Prefer lite builds")
	cmd.Flags().Bool("rtl", false, "Prefer right-to-left stylesheets")
	cmd.Flags().Bool("remote", false, "Reference assets from the CDN instead of downloading them")
	cmd.Flags().StringP("dir", "d", "", "Storage directory (default: configured storageDir)")
}

// selectionFromFlags assembles the SelectionConfig from the variant flags.
func selectionFromFlags(cmd *cobra.Command) core.SelectionConfig {
	minified, _ := cmd.Flags().GetBool("minified")
	bundle, _ := cmd.Flags().GetBool("bundle")
	lite, _ := cmd.Flags().GetBool("lite")
	rtl, _ := cmd.Flags().GetBool("rtl")
	remote, _ := cmd.Flags().GetBool("remote")

	return core.SelectionConfig{
		Local:    !remote,
		Minified: minified,
		Bundle:   bundle,
		Lite:     lite,
		RTL:      rtl,
	}
}

// joinStrings concatenates string slices with ", " separator.
func joinStrings(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	result := ss[0]
	for _, s := range ss[1:] {
		result += ", " + s
	}
	return result
}
