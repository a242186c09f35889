package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/dayledger/internal/calfeed"
	"github.com/amirbrooks/dayledger/internal/vault"
)

var (
	calCredentials string
	calToken       string
	calName        string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Calendar feed operations",
}

var calendarSyncCmd = &cobra.Command{
	Use:   "sync <date>",
	Short: "Upsert the day's calendar events into its daily note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		cfg := v.Config()
		date := args[0]

		src, err := calfeed.NewGoogleSource(cmd.Context(), calCredentials, calToken, calName)
		if err != nil {
			return err
		}
		events, err := src.EventsForDate(cmd.Context(), date)
		if err != nil {
			return err
		}

		p := vault.DailyPath(cfg, date)
		if !v.Exists(p) {
			if err := v.CreateFolder(cfg.DailyDir); err != nil {
				return err
			}
			if err := v.Create(p, "# "+date+"\n"); err != nil {
				return err
			}
		}
		return applyTransform(p, func(doc string) string {
			return calfeed.SyncEvents(doc, events)
		})
	},
}

func init() {
	configDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "dayledger")
	}
	calendarSyncCmd.Flags().StringVar(&calCredentials, "credentials", filepath.Join(configDir, "credentials.json"), "OAuth client secrets file")
	calendarSyncCmd.Flags().StringVar(&calToken, "token", filepath.Join(configDir, "token.json"), "stored OAuth token file")
	calendarSyncCmd.Flags().StringVar(&calName, "calendar", "primary", "calendar name")
	calendarCmd.AddCommand(calendarSyncCmd)
}
