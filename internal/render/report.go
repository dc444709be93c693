// Package render formats Portaria aggregates into the WhatsApp-style text
// blocks delivered to chat groups and into structured records for
// programmatic consumers.
package render

import (
	"fmt"
	"strings"

	"douvigia/internal/model"
)

// Record is the JSON-serializable view of one aggregate.
type Record struct {
	Hint              string           `json:"hint"`
	Items             []model.LineItem `json:"linhas"`
	SupplementTotal   float64          `json:"suplementacao_total"`
	CancellationTotal float64          `json:"cancelamento_total"`
	Net               float64          `json:"resultado_liquido"`
}

// maxBlockRunes keeps a rendered block under Telegram's 4096-char message
// cap with headroom for the delivery header.
const maxBlockRunes = 3500

// Aggregate renders one Portaria into its text block and structured record.
func Aggregate(agg *model.Aggregate) (string, Record) {
	record := Record{
		Hint:              agg.Hint,
		SupplementTotal:   agg.SupplementTotal(),
		CancellationTotal: agg.CancellationTotal(),
		Net:               agg.Net(),
		Items:             agg.Items,
	}

	hint := agg.Hint
	if hint == "" {
		hint = "Ato orçamentário do MPO."
	}

	lines := []string{
		"🔰 Seção 1:",
		"▶️ Ministério do Planejamento e Orçamento",
		fmt.Sprintf("📌 PORTARIA GM/MPO Nº %s", agg.OrderID),
		hint,
		"",
		"⚓ MB:",
	}

	supplements := agg.SubtotalsByUnit(model.KindSupplement)
	cancellations := agg.SubtotalsByUnit(model.KindCancellation)

	if len(supplements) > 0 {
		lines = append(lines, fmt.Sprintf("Suplementação (total: %s)", BRL(record.SupplementTotal)))
		lines = append(lines, unitLines(supplements)...)
	}
	if len(cancellations) > 0 {
		if len(supplements) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("Cancelamento (total: %s)", BRL(record.CancellationTotal)))
		lines = append(lines, unitLines(cancellations)...)
	}

	lines = append(lines, "")
	switch {
	case record.Net > 0:
		lines = append(lines, fmt.Sprintf("💰 Saldo líquido positivo: %s", BRL(record.Net)))
	case record.Net < 0:
		lines = append(lines, fmt.Sprintf("🔻 Saldo líquido negativo: %s", BRL(record.Net)))
	default:
		lines = append(lines, "⚪ Remanejamento sem alteração do valor global.")
	}

	return clampBlock(strings.Join(lines, "\n")), record
}

func unitLines(subtotals []model.UnitSubtotal) []string {
	lines := make([]string, 0, len(subtotals))
	for _, subtotal := range subtotals {
		label := "UG " + subtotal.Unit
		if name := model.UnitName(subtotal.Unit); name != "" {
			label += " - " + name
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, BRL(subtotal.Amount)))
	}
	return lines
}

func clampBlock(block string) string {
	runes := []rune(block)
	if len(runes) <= maxBlockRunes {
		return block
	}
	return string(runes[:maxBlockRunes-6]) + "\n(...)"
}
