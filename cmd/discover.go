package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tone-cli/internal/discovery"
	"github.com/sells-group/tone-cli/pkg/ninjas"
)

var discoverWindowDays int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Fetch transcripts for recent earnings calls",
	Long:  "Scans the API Ninjas earnings calendar for the recent window and downloads each new call transcript into the local transcripts directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Ninjas.Key == "" {
			return eris.New("ninjas.key is not set")
		}

		client := ninjas.NewClient(cfg.Ninjas.Key,
			ninjas.WithCalendarURL(cfg.Ninjas.CalendarURL),
			ninjas.WithTranscriptURL(cfg.Ninjas.TranscriptURL),
			ninjas.WithRequestsPerSecond(cfg.Ninjas.RequestsPerSecond),
		)

		windowDays := discoverWindowDays
		if windowDays == 0 {
			windowDays = cfg.Ninjas.WindowDays
		}

		d := discovery.New(client, cfg.Data.TranscriptsDir, windowDays)
		stats, err := d.Run(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func init() {
	discoverCmd.Flags().IntVar(&discoverWindowDays, "window-days", 0, "calendar lookback in days (defaults to ninjas.window_days)")
	rootCmd.AddCommand(discoverCmd)
}
