package attic

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atticfs/attic/internal/update"
)

var (
	flagJSON          bool
	flagNoColor       bool
	flagNoUpdateCheck bool
	flagSelfUpdate    bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the attic CLI.
var rootCmd = &cobra.Command{
	Use:           "attic",
	Short:         "Audit a tree against size limits and relocate oversized files",
	Long:          "Attic audits a directory tree against file-size, directory-entry and tree-size limits, and can move hard-limit violators to a backup store, leaving symlinks so every path keeps resolving.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagSelfUpdate {
			if err := selfUpdate(); err != nil {
				return err
			}
			os.Exit(0)
		}
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer {
				fmt.Fprintf(cmd.ErrOrStderr(), "attic %s is available (current %s)\n", latest, version)
			}
		}
		return nil
	},
}

// Execute runs the attic CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update attic to the latest release")
	rootCmd.Version = version
}
