package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the libvend configuration",
	Long: `Inspect and edit the configuration at ~/.libvend/config.json.

The file may contain comments and trailing commas; they are preserved
only until the next "config set", which rewrites it as plain JSON.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps("")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, d.config.ConfigPath())
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps("")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "registry: %s\n", d.cfg.Registry)
		fmt.Fprintf(os.Stdout, "cdn: %s\n", d.cfg.CDN)
		fmt.Fprintf(os.Stdout, "storageDir: %s\n", d.cfg.StorageDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the file back.

Keys: registry, cdn, storageDir`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps("")
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "registry":
			d.cfg.Registry = value
		case "cdn":
			d.cfg.CDN = value
		case "storageDir":
			d.cfg.StorageDir = value
		default:
			return fmt.Errorf("unknown config key %q (expected registry, cdn, or storageDir)", key)
		}

		if err := d.config.Save(d.cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Set %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
