package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"douvigia/internal/model"
	"douvigia/internal/portaria"
	"douvigia/internal/render"
)

func init() {
	extractCmd := &cobra.Command{
		Use:   "extract [archives...]",
		Short: "Extract budget orders from local DOU edition zips",
		Long: `Extract MPO budget orders from DOU edition archives already on disk.

Examples:
  # One edition
  douvigia extract ~/Downloads/2025-08-19-DO1.zip

  # A whole day's worth
  douvigia extract ~/Downloads/2025-08-19-*.zip

  # Machine-readable output for other tools
  douvigia extract --json edition.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtract,
	}

	extractCmd.Flags().BoolP("json", "j", false, "Emit one JSON object per order instead of text blocks")
	extractCmd.Flags().StringSlice("units", nil, "Budget unit codes to keep (default: Navy units)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	unitCodes, _ := cmd.Flags().GetStringSlice("units")

	var filter model.UnitFilter
	if len(unitCodes) > 0 {
		filter = model.NewUnitFilter(unitCodes...)
	}

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no archives found to extract")
	}

	encoder := json.NewEncoder(os.Stdout)
	found := 0

	for _, path := range allFiles {
		orders, err := portaria.ExtractFile(path, filter)
		if err != nil {
			slog.Error("Failed to read archive", "file", path, "error", err)
			continue
		}

		orderIDs := make([]string, 0, len(orders))
		for orderID := range orders {
			orderIDs = append(orderIDs, orderID)
		}
		sort.Strings(orderIDs)

		for _, orderID := range orderIDs {
			block, record := render.Aggregate(orders[orderID])
			found++
			if asJSON {
				out := struct {
					OrderID string `json:"portaria"`
					render.Record
				}{orderID, record}
				if err := encoder.Encode(out); err != nil {
					return fmt.Errorf("encode order %s: %w", orderID, err)
				}
				continue
			}
			fmt.Println(block)
			fmt.Println()
		}
	}

	slog.Info("Extraction complete", "archives", len(allFiles), "orders", found)
	return nil
}
