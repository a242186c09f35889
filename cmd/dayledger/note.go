package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dayledger/internal/ledger"
	"github.com/amirbrooks/dayledger/internal/tasknote"
	"github.com/amirbrooks/dayledger/internal/vault"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Satellite task note operations",
}

var notePushCmd = &cobra.Command{
	Use:   "push <file> <line>",
	Short: "Push a task line's marker to its note's status field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		idx, err := parseLineArg(args[1])
		if err != nil {
			return err
		}
		doc, err := v.Read(args[0])
		if err != nil {
			return err
		}
		lines := ledger.SplitDoc(doc)
		if idx >= len(lines) {
			return fmt.Errorf("%w: line %d out of range", vault.ErrInvalid, idx)
		}
		l := ledger.Parse(lines[idx])
		if l.Kind != ledger.KindTask || l.ID == "" {
			return fmt.Errorf("%w: not a task line with an id", vault.ErrInvalid)
		}
		return tasknote.SyncStatusToNote(v, v.Config(), l.ID, l.Marker)
	},
}

var notePullCmd = &cobra.Command{
	Use:   "pull <note-file>",
	Short: "Push a note's declared status back to its source line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		return tasknote.SyncStatusToSource(v, v.Config(), args[0])
	},
}

var noteSubtasksCmd = &cobra.Command{
	Use:   "subtasks <file> <line>",
	Short: "Merge the subtask checklists of a task and its note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		idx, err := parseLineArg(args[1])
		if err != nil {
			return err
		}
		if !guard.Begin(args[0]) {
			return nil
		}
		defer guard.End(args[0])
		return tasknote.SyncSubtasks(v, v.Config(), args[0], idx)
	},
}

var noteCreateCmd = &cobra.Command{
	Use:   "create <file> <line>",
	Short: "Create the satellite note for a task line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		idx, err := parseLineArg(args[1])
		if err != nil {
			return err
		}
		doc, err := v.Read(args[0])
		if err != nil {
			return err
		}
		lines := ledger.SplitDoc(doc)
		if idx >= len(lines) {
			return fmt.Errorf("%w: line %d out of range", vault.ErrInvalid, idx)
		}
		l := ledger.Parse(lines[idx])
		if l.Kind != ledger.KindTask {
			return fmt.Errorf("%w: not a task line", vault.ErrInvalid)
		}
		if l.ID == "" {
			return fmt.Errorf("%w: assign ids first", vault.ErrInvalid)
		}
		n := tasknote.Create(v.Config(), l, args[0])
		if v.Exists(n.Path) {
			return fmt.Errorf("%w: %s already exists", vault.ErrInvalid, n.Path)
		}
		if err := n.Save(v); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.Path)
		return nil
	},
}

func init() {
	noteCmd.AddCommand(notePushCmd)
	noteCmd.AddCommand(notePullCmd)
	noteCmd.AddCommand(noteSubtasksCmd)
	noteCmd.AddCommand(noteCreateCmd)
}
