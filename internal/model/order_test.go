package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Totals(t *testing.T) {
	tests := []struct {
		name             string
		items            []LineItem
		wantSupplement   float64
		wantCancellation float64
		wantNet          float64
	}{
		{
			name: "mixed kinds",
			items: []LineItem{
				{Unit: "52131", Kind: KindSupplement, Amount: 1000},
				{Unit: "52133", Kind: KindSupplement, Amount: 500},
				{Unit: "52131", Kind: KindCancellation, Amount: 300},
			},
			wantSupplement:   1500,
			wantCancellation: 300,
			wantNet:          1200,
		},
		{
			name: "cancellation only",
			items: []LineItem{
				{Unit: "52931", Kind: KindCancellation, Amount: 250.5},
			},
			wantCancellation: 250.5,
			wantNet:          -250.5,
		},
		{
			name: "no items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregate := &Aggregate{OrderID: "1/2025", Items: tt.items}
			assert.InDelta(t, tt.wantSupplement, aggregate.SupplementTotal(), 1e-9)
			assert.InDelta(t, tt.wantCancellation, aggregate.CancellationTotal(), 1e-9)
			assert.InDelta(t, tt.wantNet, aggregate.Net(), 1e-9)
		})
	}
}

func TestAggregate_SubtotalsByUnit(t *testing.T) {
	aggregate := &Aggregate{
		OrderID: "1/2025",
		Items: []LineItem{
			{Unit: "52931", Kind: KindSupplement, Amount: 10},
			{Unit: "52131", Kind: KindSupplement, Amount: 20},
			{Unit: "52131", Kind: KindSupplement, Amount: 5},
			{Unit: "52131", Kind: KindCancellation, Amount: 99},
		},
	}

	subtotals := aggregate.SubtotalsByUnit(KindSupplement)
	assert.Equal(t, []UnitSubtotal{
		{Unit: "52131", Amount: 25},
		{Unit: "52931", Amount: 10},
	}, subtotals)
}
