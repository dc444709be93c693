// Package model defines the domain types shared across the application.
package model

import "sort"

// OperationKind distinguishes the two opposing budget-adjustment
// operations a Portaria records for a unit.
type OperationKind string

// Operation kinds as they appear in the DOU annexes.
const (
	KindSupplement   OperationKind = "SUPLEMENTACAO"
	KindCancellation OperationKind = "CANCELAMENTO"
)

// LineItem is one qualifying grand-total row extracted from a Portaria
// annex table: the unit it belongs to, the operation kind of the current
// section, and the parsed amount.
type LineItem struct {
	Unit   string        `json:"ug"`
	Kind   OperationKind `json:"kind"`
	Amount float64       `json:"valor"`
}

// Aggregate collects every line item extracted for a single Portaria,
// across all fragments of its matéria.
type Aggregate struct {
	OrderID string
	Hint    string
	Items   []LineItem
}

// SupplementTotal sums all supplement line items.
func (a *Aggregate) SupplementTotal() float64 {
	return a.totalFor(KindSupplement)
}

// CancellationTotal sums all cancellation line items.
func (a *Aggregate) CancellationTotal() float64 {
	return a.totalFor(KindCancellation)
}

// Net is the supplement total minus the cancellation total.
func (a *Aggregate) Net() float64 {
	return a.SupplementTotal() - a.CancellationTotal()
}

func (a *Aggregate) totalFor(kind OperationKind) float64 {
	var total float64
	for _, item := range a.Items {
		if item.Kind == kind {
			total += item.Amount
		}
	}
	return total
}

// UnitSubtotal is the summed amount for one unit within one operation kind.
type UnitSubtotal struct {
	Unit   string
	Amount float64
}

// SubtotalsByUnit groups the aggregate's line items of the given kind by
// unit code, summing repeated rows, and returns them in ascending unit
// order so rendering is deterministic.
func (a *Aggregate) SubtotalsByUnit(kind OperationKind) []UnitSubtotal {
	byUnit := make(map[string]float64)
	for _, item := range a.Items {
		if item.Kind == kind {
			byUnit[item.Unit] += item.Amount
		}
	}

	subtotals := make([]UnitSubtotal, 0, len(byUnit))
	for unit, amount := range byUnit {
		subtotals = append(subtotals, UnitSubtotal{Unit: unit, Amount: amount})
	}
	sort.Slice(subtotals, func(i, j int) bool {
		return subtotals[i].Unit < subtotals[j].Unit
	})
	return subtotals
}
