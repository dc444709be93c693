package portaria

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"douvigia/internal/model"
)

var (
	// "UNIDADE: 52131 - Comando da Marinha"
	unitRowPattern = regexp.MustCompile(`UNIDADE:\s*(\d{5})`)
	// "PROGRAMA DE TRABALHO ( SUPLEMENTAÇÃO )" / "( CANCELAMENTO )"
	cancelQualifierPattern     = regexp.MustCompile(`(?i)\(\s*cancelamento\s*\)`)
	supplementQualifierPattern = regexp.MustCompile(`(?i)\(\s*suplementa`)
	// "TOTAL - GERAL 1.500.000,00"
	grandTotalPattern     = regexp.MustCompile(`(?i)TOTAL\s*-\s*GERAL`)
	trailingAmountPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*(?:,\d{2})?|\d+)$`)
)

// scanState is the per-fragment row-machine state: the unit section and
// operation kind currently in effect. It is created for one fragment and
// discarded afterwards; nothing carries across fragments.
type scanState struct {
	unit string
	kind model.OperationKind
}

// scanFragment walks a fragment's annex table rows in document order and
// emits one line item per qualifying grand-total row: unit and kind must
// be in effect, the trailing amount must parse, and the unit must be in
// the filter.
func scanFragment(data []byte, filter model.UnitFilter) ([]model.LineItem, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	if env.Texto == "" {
		return nil, nil
	}
	rows, err := tableRows(env.Texto)
	if err != nil {
		return nil, fmt.Errorf("fragment annex: %w", err)
	}

	var items []model.LineItem
	var state scanState
	for _, row := range rows {
		text := nodeText(row)

		if m := unitRowPattern.FindStringSubmatch(text); m != nil {
			// A unit section always opens before its annex headers, so
			// the kind of the previous section must not carry over.
			state = scanState{unit: m[1]}
			continue
		}

		if strings.Contains(text, "PROGRAMA DE TRABALHO") &&
			strings.Contains(text, "(") && strings.Contains(text, ")") {
			switch {
			case cancelQualifierPattern.MatchString(text):
				state.kind = model.KindCancellation
			case supplementQualifierPattern.MatchString(text):
				state.kind = model.KindSupplement
			default:
				state.kind = ""
			}
			continue
		}

		if !grandTotalPattern.MatchString(text) {
			continue
		}
		amountLiteral := trailingAmountPattern.FindString(text)
		if amountLiteral == "" {
			continue
		}
		if state.unit == "" || state.kind == "" {
			// Stray totals ahead of the section headers do occur in some
			// bulletins; keep them apart from genuine parse failures.
			slog.Debug("grand-total row before section headers",
				"unit", state.unit,
				"kind", state.kind)
			continue
		}
		amount, err := parseAmount(amountLiteral)
		if err != nil {
			slog.Debug("grand-total amount did not parse",
				"literal", amountLiteral,
				"error", err)
			continue
		}
		if !filter.Contains(state.unit) {
			continue
		}
		items = append(items, model.LineItem{
			Unit:   state.unit,
			Kind:   state.kind,
			Amount: amount,
		})
	}
	return items, nil
}

// parseAmount parses a Brazilian-formatted monetary literal: "." groups
// thousands and "," separates decimals. Negative values are rejected.
func parseAmount(literal string) (float64, error) {
	normalized := strings.ReplaceAll(literal, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", literal, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("amount %q: negative", literal)
	}
	return value, nil
}
