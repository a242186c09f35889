package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dayledger/internal/vault"
)

// Exit codes
const (
	exitOK       = 0
	exitUsage    = 2
	exitNotFound = 3
	exitInternal = 10
)

var (
	vaultRoot string
	verbose   bool

	// One programmatic edit per document at a time; the guard keeps our own
	// writes from re-triggering processing.
	guard = vault.NewGuard()
)

var rootCmd = &cobra.Command{
	Use:   "dayledger",
	Short: "Task ledger embedded in daily notes",
	Long: `dayledger maintains a plain-text task ledger inside daily note documents.
Checkbox lines carry inline metadata tags; dayledger assigns ids, links
subtasks to parents, sorts by time block, schedules tasks across days and
archives finished work.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultRoot, "vault", ".", "vault root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(idsCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(unscheduleCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(watchCmd)
}

func openVault() (*vault.FS, error) {
	return vault.Open(vaultRoot)
}

// applyTransform runs a pure text transform against one document and writes
// the result back only when something changed.
func applyTransform(p string, fn func(string) string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	if !guard.Begin(p) {
		return nil
	}
	defer guard.End(p)
	doc, err := v.Read(p)
	if err != nil {
		return err
	}
	out := fn(doc)
	if out == doc {
		return nil
	}
	return v.Write(p, out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		switch {
		case errors.Is(err, vault.ErrNotFound):
			os.Exit(exitNotFound)
		case errors.Is(err, vault.ErrInvalid):
			os.Exit(exitUsage)
		default:
			os.Exit(exitInternal)
		}
	}
}
