package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"douvigia/internal/common"
	"douvigia/internal/config"
	"douvigia/internal/inlabs"
	"douvigia/internal/notify"
	"douvigia/internal/service"
	"douvigia/internal/storage"
)

// saoPaulo is the DOU publication timezone.
func saoPaulo() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

func init() {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run one verification pass against the DOU",
		Long: `Fetch the day's DOU editions from InLabs, extract MPO budget
orders, and deliver the new ones. Editions already processed and orders
already delivered are skipped.`,
		RunE: runCheck,
	}

	checkCmd.Flags().String("date", "", "Publication date to check (YYYY-MM-DD, default: today)")
	checkCmd.Flags().Bool("console", false, "Print reports to stdout instead of Telegram")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	day, _ := cmd.Flags().GetString("date")
	console, _ := cmd.Flags().GetBool("console")

	if day == "" {
		day = time.Now().In(saoPaulo()).Format("2006-01-02")
	}

	checker, store, err := buildChecker(console, true)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	summary, err := runPass(ctx, checker, day)
	if err != nil {
		return err
	}

	slog.Info("Check complete",
		"day", day,
		"editions", summary.Editions,
		"new_editions", summary.NewEditions,
		"orders", summary.OrdersFound,
		"delivered", summary.Delivered)
	return nil
}

// runPass executes one checker pass with retries; InLabs is unreliable
// around publication time.
func runPass(ctx context.Context, checker *service.Checker, day string) (*service.RunSummary, error) {
	var summary *service.RunSummary
	err := common.WithRetry(ctx, func() error {
		var runErr error
		summary, runErr = checker.Run(ctx, day)
		if errors.Is(runErr, common.ErrNoEditions) {
			// Nothing published yet is not a transient failure.
			return &common.RetryableError{Err: runErr, Retryable: false}
		}
		return runErr
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 5 * time.Second,
		MaxDelay:     time.Minute,
	})
	return summary, err
}

// buildChecker wires the checker's collaborators from configuration.
func buildChecker(console, progress bool) (*service.Checker, *storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(config.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	inlabsCfg, err := config.GetInLabs()
	if err != nil {
		_ = store.Close()
		return nil, nil, common.NewUserError("set inlabs.user and inlabs.password in the config file", err)
	}
	fetcher, err := inlabs.NewClient(inlabs.Config{
		BaseURL:  inlabsCfg.BaseURL,
		User:     inlabsCfg.User,
		Password: inlabsCfg.Password,
		Timeout:  inlabsCfg.Timeout,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	fetcher.SetProgress(progress)

	var notifier service.Notifier
	if console {
		notifier = notify.NewConsole(os.Stdout)
	} else {
		telegramCfg, err := config.GetTelegram()
		if err != nil {
			_ = store.Close()
			return nil, nil, common.NewUserError("set telegram.token and telegram.chat_id, or pass --console", err)
		}
		notifier, err = notify.NewTelegram(telegramCfg.Token, telegramCfg.ChatID)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}

	checker := service.NewChecker(store, fetcher, notifier, config.Units(), config.Sections())
	return checker, store, nil
}
