package storage

import (
	"context"
	"fmt"

	"douvigia/internal/model"
)

// SaveOrder records one delivered budget order.
func (s *SQLiteStore) SaveOrder(ctx context.Context, record *model.OrderRecord) error {
	if record == nil {
		return fmt.Errorf("record must not be nil")
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (order_id, hint, edition, supplement_total, cancellation_total, net)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.OrderID, record.Hint, record.Edition,
		record.SupplementTotal, record.CancellationTotal, record.Net)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", record.OrderID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// HasOrder reports whether an order id was already delivered.
func (s *SQLiteStore) HasOrder(ctx context.Context, orderID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM orders WHERE order_id = ?`, orderID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query order %s: %w", orderID, err)
	}
	return count > 0, nil
}

// ListOrders returns the most recently seen orders, newest first. A
// non-positive limit returns everything.
func (s *SQLiteStore) ListOrders(ctx context.Context, limit int) ([]model.OrderRecord, error) {
	query := `SELECT id, order_id, hint, edition, supplement_total, cancellation_total, net, seen_at
		FROM orders ORDER BY seen_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.OrderRecord
	for rows.Next() {
		var record model.OrderRecord
		if err := rows.Scan(&record.ID, &record.OrderID, &record.Hint, &record.Edition,
			&record.SupplementTotal, &record.CancellationTotal, &record.Net, &record.SeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
