package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dayledger/internal/schedule"
	"github.com/amirbrooks/dayledger/internal/vault"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <file> <line> <date>",
	Short: "Move a task (and its subtasks) to another day's note",
	Args:  cobra.ExactArgs(3),
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
		sch := schedule.New(v, v.Config())
		sch.Notices = cmd.ErrOrStderr()
		return sch.Schedule(args[0], idx, args[2])
	},
}

var unscheduleCmd = &cobra.Command{
	Use:   "unschedule <file> <line>",
	Short: "Reverse a schedule, removing the forward copy",
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
		sch := schedule.New(v, v.Config())
		sch.Notices = cmd.ErrOrStderr()
		return sch.Unschedule(args[0], idx)
	},
}

// parseLineArg accepts a zero-based line index.
func parseLineArg(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: bad line index %q", vault.ErrInvalid, s)
	}
	return idx, nil
}
