package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"douvigia/internal/cli"
	"douvigia/internal/config"
	"douvigia/internal/render"
	"douvigia/internal/storage"
)

func init() {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage delivered budget orders",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List delivered orders, newest first",
		RunE:  runOrdersList,
	}
	listCmd.Flags().IntP("limit", "n", 20, "Maximum orders to show (0 for all)")

	ordersCmd.AddCommand(listCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrdersList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := storage.NewSQLiteStore(config.DatabasePath())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	records, err := store.ListOrders(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No orders delivered yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Delivered budget orders"))
	header := fmt.Sprintf("%-22s %-10s %18s %18s %18s",
		"PORTARIA", "SEEN", "SUPLEMENTAÇÃO", "CANCELAMENTO", "LÍQUIDO")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, record := range records {
		row := fmt.Sprintf("%-22s %-10s %18s %18s %18s",
			record.OrderID,
			record.SeenAt.Format("2006-01-02"),
			render.BRL(record.SupplementTotal),
			render.BRL(record.CancellationTotal),
			render.BRL(record.Net))
		fmt.Println(cli.TableCellStyle.Render(row))
	}

	slog.Debug("listed orders", "count", len(records))
	return nil
}
