package engine

import "errors"

// ErrNoRecognizableLayout is returned when no template kind reaches the
// boundary threshold. Extraction must not be attempted on such documents.
var ErrNoRecognizableLayout = errors.New("no recognizable layout")

// minBoundaryMatches is the number of boundary lines a template kind must
// contribute before the document is considered an instance of it. A single
// stray match (a lone "001" in running text) is not a table.
const minBoundaryMatches = 2

// BoundaryCounts scans the full line stream once and counts, per template
// kind, the lines matching that kind's boundary recognizer.
func BoundaryCounts(doc *RawDocument) map[TemplateKind]int {
	counts := make(map[TemplateKind]int, len(allRulesets))
	for i := 0; i < doc.Len(); i++ {
		line := doc.Line(i)
		for _, rules := range allRulesets {
			if rules.IsBoundary(line) {
				counts[rules.Kind()]++
			}
		}
	}
	return counts
}

// Classify assigns the document's template kind from its boundary counts.
// The winner must reach minBoundaryMatches and have the highest count;
// ties are broken by the fixed declaration order of the rulesets, so
// classification is deterministic.
func Classify(doc *RawDocument) (TemplateKind, error) {
	counts := BoundaryCounts(doc)

	best := TemplateUnknown
	bestCount := 0
	for _, rules := range allRulesets {
		n := counts[rules.Kind()]
		if n < minBoundaryMatches {
			continue
		}
		if n > bestCount {
			best = rules.Kind()
			bestCount = n
		}
	}
	if best == TemplateUnknown {
		return TemplateUnknown, ErrNoRecognizableLayout
	}
	return best, nil
}
