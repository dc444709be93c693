// Package service defines the contracts between the watcher's
// collaborators and the orchestration that ties them together.
package service

import (
	"context"

	"douvigia/internal/model"
)

// Store is the persistence layer for cross-run state: delivered orders
// and already-processed edition archives.
type Store interface {
	SaveOrder(ctx context.Context, record *model.OrderRecord) error
	HasOrder(ctx context.Context, orderID string) (bool, error)
	ListOrders(ctx context.Context, limit int) ([]model.OrderRecord, error)

	MarkArchiveProcessed(ctx context.Context, day, url string) error
	ArchiveProcessed(ctx context.Context, day, url string) (bool, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ArchiveFetcher retrieves DOU edition archives for a publication day.
type ArchiveFetcher interface {
	Login(ctx context.Context) error
	ListArchives(ctx context.Context, day string, sections []string) ([]string, error)
	DownloadArchive(ctx context.Context, url string) ([]byte, error)
}

// Notifier delivers a rendered report block to its destination channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
