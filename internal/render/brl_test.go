package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		want  string
		value float64
	}{
		{want: "R$ 0,00", value: 0},
		{want: "R$ 345,00", value: 345},
		{want: "R$ 1.500,00", value: 1500},
		{want: "R$ 1.234,56", value: 1234.56},
		{want: "R$ 1.234.567,89", value: 1234567.89},
		{want: "R$ -10,50", value: -10.5},
		{want: "R$ 999,99", value: 999.99},
		{want: "R$ 1.000,00", value: 999.999},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, BRL(tt.value))
		})
	}
}
