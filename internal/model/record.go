package model

import "time"

// OrderRecord is the persisted form of a processed Portaria: the resolved
// identifier, its hint, and the consolidated totals, plus where and when
// it was seen. Used by the state store to avoid re-delivering an order.
type OrderRecord struct {
	SeenAt            time.Time
	OrderID           string
	Hint              string
	Edition           string
	ID                int64
	SupplementTotal   float64
	CancellationTotal float64
	Net               float64
}
