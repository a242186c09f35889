package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dayledger/internal/tasknote"
	"github.com/amirbrooks/dayledger/internal/vault"
)

var watchInterval time.Duration

// watchCmd polls the notes folder and pushes edited note statuses back to
// their source lines. Edits are debounced per file so a burst of saves from
// an editor collapses into one sync; the write guard keeps our own source
// writes from looping back.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch task notes and sync status edits back to their sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		cfg := v.Config()
		deb := vault.NewDebouncer(vault.DebounceWindow)
		defer deb.Flush()

		seen := map[string]time.Time{}
		priming := true
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		ctx := cmd.Context()
		for {
			paths, err := v.ListFiles(cfg.NotesDir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fi, err := os.Stat(filepath.Join(v.Root, filepath.FromSlash(p)))
				if err != nil {
					continue
				}
				mod := fi.ModTime()
				if last, ok := seen[p]; ok && !mod.After(last) {
					continue
				}
				seen[p] = mod
				if priming {
					continue
				}
				p := p
				deb.Trigger(p, func() {
					if !guard.Begin(p) {
						return
					}
					defer guard.End(p)
					if err := tasknote.SyncStatusToSource(v, cfg, p); err != nil {
						slog.Warn("note sync failed", "note", p, "err", err)
						return
					}
					slog.Debug("synced note status", "note", p)
				})
			}
			priming = false
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "poll interval")
}
