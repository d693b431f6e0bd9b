// Package cli wires the cobra command tree for the bb binary.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bb",
		Short: "Baobranch keeps a tree of one-commit branches evolving together",
		Long: `Baobranch keeps a tree of one-commit branches evolving together.

Each branch carries exactly one commit. Amending a branch leaves its
descendants behind on the old tip; 'bb evolve' walks the tree and rebases
them back into place, resumable across conflicts.`,
		Version: version + " (" + commit + ", " + date + ")",
	}

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newAmendCmd())
	rootCmd.AddCommand(newUnamendCmd())
	rootCmd.AddCommand(newEvolveCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newAbortCmd())
	rootCmd.AddCommand(newParentCmd())
	rootCmd.AddCommand(newChildrenCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newSplitCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newPRCmd())

	return rootCmd
}
