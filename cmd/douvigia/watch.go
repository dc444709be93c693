package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"douvigia/internal/common"
)

// DOU editions land during the day; outside this window the watcher
// sleeps instead of hammering the portal.
const (
	watchWindowStartHour = 5
	watchWindowEndHour   = 23
)

func init() {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the DOU continuously",
		Long: `Run verification passes on an interval, within business hours
(05:00 to 23:00 America/Sao_Paulo). Stops cleanly on interrupt.`,
		RunE: runWatch,
	}

	watchCmd.Flags().Duration("interval", 10*time.Minute, "Time between passes")
	watchCmd.Flags().Bool("console", false, "Print reports to stdout instead of Telegram")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	console, _ := cmd.Flags().GetBool("console")

	checker, store, err := buildChecker(console, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	location := saoPaulo()
	slog.Info("Watching the DOU", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		now := time.Now().In(location)
		if hour := now.Hour(); hour >= watchWindowStartHour && hour < watchWindowEndHour {
			day := now.Format("2006-01-02")
			summary, err := runPass(ctx, checker, day)
			switch {
			case errors.Is(err, common.ErrNoEditions):
				slog.Debug("no editions published yet", "day", day)
			case err != nil:
				slog.Error("pass failed", "day", day, "error", err)
			case summary.Delivered > 0:
				slog.Info("pass delivered orders", "day", day, "delivered", summary.Delivered)
			}
		} else {
			slog.Debug("outside publication window", "hour", now.Hour())
		}

		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}
