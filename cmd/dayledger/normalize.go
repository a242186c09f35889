package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dayledger/internal/ledger"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vault skeleton and default config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		if err := v.Init(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "initialized vault at %s\n", v.Root)
		return nil
	},
}

var idsCmd = &cobra.Command{
	Use:   "ids <file>",
	Short: "Assign ids to task lines that lack one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		cfg := v.Config()
		return applyTransform(args[0], func(doc string) string {
			return ledger.AssignIDs(doc, cfg.IDPrefix, cfg.IDLength)
		})
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <file>",
	Short: "Attach subtasks to their parent tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyTransform(args[0], ledger.LinkParents)
	},
}

var sortBlocks bool

var sortCmd = &cobra.Command{
	Use:   "sort <file>",
	Short: "Sort task groups chronologically",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sortBlocks {
			return applyTransform(args[0], ledger.SortByTimeBlock)
		}
		return applyTransform(args[0], ledger.SortByTime)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <file>",
	Short: "Move finished task runs into the trailing archive callout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyTransform(args[0], ledger.Archive)
	},
}

func init() {
	sortCmd.Flags().BoolVar(&sortBlocks, "blocks", false, "flat time-block view instead of completed/incomplete split")
}
