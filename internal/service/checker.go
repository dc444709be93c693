package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"douvigia/internal/model"
	"douvigia/internal/portaria"
	"douvigia/internal/render"
)

// Checker runs one verification pass for a publication day: list the
// day's edition archives, extract Portarias from the ones not yet
// processed, deliver new orders, and persist what was seen.
type Checker struct {
	store    Store
	fetcher  ArchiveFetcher
	notifier Notifier
	units    model.UnitFilter
	sections []string
}

// RunSummary reports what one pass did.
type RunSummary struct {
	Editions    int
	NewEditions int
	OrdersFound int
	Delivered   int
}

// NewChecker wires a checker from its collaborators. A nil unit filter
// means the built-in Navy units; empty sections default to DO1.
func NewChecker(store Store, fetcher ArchiveFetcher, notifier Notifier, units model.UnitFilter, sections []string) *Checker {
	if units == nil {
		units = model.DefaultUnits()
	}
	if len(sections) == 0 {
		sections = []string{"DO1"}
	}
	return &Checker{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		units:    units,
		sections: sections,
	}
}

// Run performs one pass for the given day (YYYY-MM-DD). Failures local to
// one edition are logged and skipped; the edition stays unmarked so the
// next pass retries it.
func (c *Checker) Run(ctx context.Context, day string) (*RunSummary, error) {
	if err := c.fetcher.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	urls, err := c.fetcher.ListArchives(ctx, day, c.sections)
	if err != nil {
		return nil, fmt.Errorf("list editions for %s: %w", day, err)
	}

	summary := &RunSummary{Editions: len(urls)}
	for _, url := range urls {
		processed, err := c.store.ArchiveProcessed(ctx, day, url)
		if err != nil {
			return summary, fmt.Errorf("check processed state: %w", err)
		}
		if processed {
			continue
		}
		summary.NewEditions++

		if err := c.processEdition(ctx, day, url, summary); err != nil {
			slog.Error("edition failed, will retry next pass", "url", url, "error", err)
			continue
		}
		if err := c.store.MarkArchiveProcessed(ctx, day, url); err != nil {
			return summary, fmt.Errorf("mark edition processed: %w", err)
		}
	}
	return summary, nil
}

func (c *Checker) processEdition(ctx context.Context, day, url string, summary *RunSummary) error {
	data, err := c.fetcher.DownloadArchive(ctx, url)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	aggregates, err := portaria.Extract(data, c.units)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	summary.OrdersFound += len(aggregates)

	orderIDs := make([]string, 0, len(aggregates))
	for orderID := range aggregates {
		orderIDs = append(orderIDs, orderID)
	}
	sort.Strings(orderIDs)

	for _, orderID := range orderIDs {
		aggregate := aggregates[orderID]

		seen, err := c.store.HasOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("check order state: %w", err)
		}
		if seen && orderID != portaria.UnresolvedOrderID {
			slog.Debug("order already delivered", "order", orderID)
			continue
		}

		block, record := render.Aggregate(aggregate)
		if err := c.notifier.Send(ctx, block); err != nil {
			return fmt.Errorf("deliver order %s: %w", orderID, err)
		}
		summary.Delivered++

		if err := c.store.SaveOrder(ctx, &model.OrderRecord{
			OrderID:           orderID,
			Hint:              record.Hint,
			Edition:           url,
			SupplementTotal:   record.SupplementTotal,
			CancellationTotal: record.CancellationTotal,
			Net:               record.Net,
		}); err != nil {
			return fmt.Errorf("save order %s: %w", orderID, err)
		}

		slog.Info("delivered budget order",
			"order", orderID,
			"net", record.Net,
			"edition", url)
	}
	return nil
}
