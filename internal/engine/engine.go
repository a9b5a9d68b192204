// Package engine recovers structured line-item records from the flat text
// line stream of a vendor quotation document. The grid of the original
// table is gone by the time the text reaches us; the engine rebuilds it
// from line positions and layout-specific patterns.
package engine

import (
	"fmt"
	"log/slog"
)

// Engine runs the full extraction pipeline for one document: classify,
// segment, resolve, assemble. An Engine holds no per-document state and is
// safe to reuse across documents; one document run is fully synchronous.
type Engine struct {
	logger *slog.Logger
}

// New creates an engine. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Extract converts a raw document into extracted records (and groups, for
// grouping layouts). Classification failure aborts the document; every
// other anomaly degrades per field or per record and is tallied in the
// report. Zero extracted records is a valid result, not an error.
func (e *Engine) Extract(doc *RawDocument) (*Result, error) {
	kind, err := Classify(doc)
	if err != nil {
		return nil, fmt.Errorf("classify document: %w", err)
	}
	rules, ok := rulesetFor(kind)
	if !ok {
		return nil, fmt.Errorf("no ruleset for template %q", kind)
	}

	res := &Result{Kind: kind, Header: HarvestHeader(doc)}
	rs := &resolver{doc: doc, rules: rules, logger: e.logger, report: &res.Report}

	windows := segment(doc, rules)
	res.Report.Boundaries = len(windows)
	for _, w := range windows {
		rec, ok := rs.resolve(w)
		if !ok {
			continue
		}
		res.Records = append(res.Records, rec)
	}
	res.Report.Emitted = len(res.Records)

	if rules.groups() {
		res.Groups = GroupRecords(res.Records)
	}

	e.logger.Info("extraction complete",
		"template", kind,
		"boundaries", res.Report.Boundaries,
		"records", res.Report.Emitted,
		"dropped", res.Report.DroppedNoID)
	return res, nil
}
