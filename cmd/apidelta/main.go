// Package main provides the apidelta CLI. It diffs the public API surface
// of a library between two snapshots and proposes the next semantic
// version: removals and signature changes bump the major, pure additions
// the minor, anything else the patch.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; "dev" for local builds.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "apidelta",
	Short: "Detect breaking public API changes and suggest the next semver",
	Long: `apidelta compares two snapshots of a library's public API surface,
classifies every difference as an addition, removal or modification, and
derives the next semantic version from the aggregate.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
