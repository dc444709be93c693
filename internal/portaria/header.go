package portaria

import (
	"regexp"
	"strings"
)

// UnresolvedOrderID is the sentinel identifier used when no pattern in
// the resolver chain matches a header fragment. Line items found in the
// matéria are still retained under it.
const UnresolvedOrderID = "PORTARIA GM/MPO"

// idMatcher tries to resolve "<number>/<year>" from the header's body
// text and root name attribute. Matchers are independent and tried in
// order; the first success wins.
type idMatcher func(body, nameAttr string) (string, bool)

var idMatchers = []idMatcher{
	matchStrictID,
	matchLooseBodyID,
	matchNameAttrID,
}

var (
	// "PORTARIA GM/MPO Nº 330, DE 19 DE AGOSTO DE 2025"
	strictIDPattern = regexp.MustCompile(`(?i)PORTARIA\s+GM/?MPO\s+N[ºo°]?\s*(\d+).+?DE\s+(20\d{2})`)
	// OCR noise variant: "Portaria GM.MPO nA 330.2025"
	looseIDPattern = regexp.MustCompile(`(?i)Portaria\s+GM\.?/?MPO\s+n\S*\s+(\d+)[.\-_/](\d{4})`)
)

func matchStrictID(body, _ string) (string, bool) {
	if m := strictIDPattern.FindStringSubmatch(body); m != nil {
		return m[1] + "/" + m[2], true
	}
	return "", false
}

func matchLooseBodyID(body, _ string) (string, bool) {
	if m := looseIDPattern.FindStringSubmatch(body); m != nil {
		return m[1] + "/" + m[2], true
	}
	return "", false
}

func matchNameAttrID(_, nameAttr string) (string, bool) {
	if m := looseIDPattern.FindStringSubmatch(nameAttr); m != nil {
		return m[1] + "/" + m[2], true
	}
	return "", false
}

// hintPatterns cover the sentence openings Portarias use for their
// purpose. Each must run to a period so the hint is a whole sentence.
// The two MPO-specific forms come first because the generic verbs would
// cut them short.
var hintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Abre\s+ao?s?\s+Or[çc]amentos?[\s\S]*?vigente\.)`),
	regexp.MustCompile(`(?i)(Adequa[\s\S]*?altera[çc][õo]es\s+posteriores\.)`),
	regexp.MustCompile(`(?i)(Altera[\s\S]*?\.)`),
	regexp.MustCompile(`(?i)(Autoriza[\s\S]*?\.)`),
	regexp.MustCompile(`(?i)(Disp[õo]e[\s\S]*?\.)`),
	regexp.MustCompile(`(?i)(Estabelece[\s\S]*?\.)`),
	regexp.MustCompile(`(?i)(Fixa[\s\S]*?\.)`),
	regexp.MustCompile(`(?i)(Prorroga[\s\S]*?\.)`),
}

var (
	annexSplitPattern = regexp.MustCompile(`(?i)ANEXO\s+I`)
	sentencePattern   = regexp.MustCompile(`[^.]*\.`)
)

// hintKeywords qualify a fallback sentence as budget-related.
var hintKeywords = []string{"orçament", "lme", "limites", "crédito"}

const (
	minHintSentenceRunes = 80
	maxFallbackHintRunes = 220
)

// resolveHeader extracts the canonical order identifier and the
// descriptive hint from a header fragment's envelope. When the fragment
// carries no Texto payload there is nothing to classify: the identifier
// degrades to the sentinel and the hint is empty.
func resolveHeader(env fragmentEnvelope) (orderID, hint string) {
	if env.Texto == "" {
		return UnresolvedOrderID, ""
	}
	body := htmlToText(env.Texto)

	orderID = UnresolvedOrderID
	for _, match := range idMatchers {
		if id, ok := match(body, env.NameAttr); ok {
			orderID = id
			break
		}
	}
	return orderID, extractHint(body)
}

// extractHint pulls the order's purpose sentence out of the normalized
// body text. It is a pure function of its input.
func extractHint(body string) string {
	if body == "" {
		return ""
	}
	for _, pattern := range hintPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return normalizeSpace(m[1])
		}
	}

	// No known opening: take the first long budget-related sentence
	// before the first annex.
	pre := annexSplitPattern.Split(body, 2)[0]
	for _, raw := range sentencePattern.FindAllString(pre, -1) {
		sentence := normalizeSpace(raw)
		if len([]rune(sentence)) <= minHintSentenceRunes {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, keyword := range hintKeywords {
			if strings.Contains(lower, keyword) {
				return sentence
			}
		}
	}
	return truncateRunes(strings.TrimSpace(pre), maxFallbackHintRunes)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return strings.TrimRight(string(runes), " ,;")
}
