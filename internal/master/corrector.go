package master

import (
	"log/slog"

	"github.com/quoteparse/quote-extractor/internal/engine"
)

// Correction records one description change made from master data.
type Correction struct {
	Identifier string
	Old        string
	New        string
	Matched    bool
}

// Correct overwrites record descriptions from the mapping. A matched
// identifier takes the master description verbatim. An unmatched one gets
// a blank description and the record is flagged for review, so a stale
// extracted description never survives into output.
//
// An empty mapping deliberately leaves records untouched: a master file
// that yields no entries (header-only, wrong sheet) means no master data
// was provided, and treating it as "blank every description" would wipe a
// whole document over a bad upload.
func Correct(records []engine.ExtractedRecord, m Mapping, logger *slog.Logger) []Correction {
	if logger == nil {
		logger = slog.Default()
	}
	if len(m) == 0 {
		return nil
	}

	var changes []Correction
	for i := range records {
		rec := &records[i]
		desc, ok := m[NormalizeKey(rec.Identifier)]
		c := Correction{Identifier: rec.Identifier, Old: rec.Description, Matched: ok}
		if ok {
			rec.Description = desc
		} else {
			rec.Description = ""
			rec.NeedsReview = true
			logger.Warn("identifier missing from master data, flagged for review",
				"identifier", rec.Identifier)
		}
		c.New = rec.Description
		if c.New != c.Old || !ok {
			changes = append(changes, c)
		}
	}
	return changes
}

// CorrectGroups applies Correct across every group's member records.
func CorrectGroups(groups []engine.LineItemGroup, m Mapping, logger *slog.Logger) []Correction {
	var changes []Correction
	for i := range groups {
		changes = append(changes, Correct(groups[i].Records, m, logger)...)
	}
	return changes
}
