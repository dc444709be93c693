package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BRL formats a value as Brazilian currency: thousands grouped with "."
// and decimals after ",", e.g. R$ 1.234.567,89.
func BRL(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	cents := int64(math.Round(value * 100))
	digits := strconv.FormatInt(cents/100, 10)

	var grouped strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	return fmt.Sprintf("R$ %s%s,%02d", sign, grouped.String(), cents%100)
}
