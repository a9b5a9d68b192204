package engine

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResolver(doc *RawDocument, rules templateRules) (*resolver, *ExtractionReport) {
	report := &ExtractionReport{}
	return &resolver{doc: doc, rules: rules, logger: discardLogger(), report: report}, report
}

func TestResolveIdentifierBackwardSearch(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"IBM Maximo Application Suite per AppPoint Subscription License",
		"Subscription Part#: D28B4LL",
		"Billing: Annual",
		"001",
	})
	rs, _ := newResolver(doc, subscriptionRules{})

	id, ok := rs.resolveIdentifier(recordWindow{boundary: 3, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected identifier to be found")
	}
	if id != "D28B4LL" {
		t.Errorf("identifier = %q, want D28B4LL", id)
	}
}

// Order-form rows carry their own part number after the boundary, so the
// identifier must come from the record's forward window and never leak in
// from the neighbouring row.
func TestResolveIdentifierForwardSearch(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Order Form",
		"Item 1", "4", "P/N X9111AB", "100,00",
		"Item 2", "1", "P/N X9112AC", "250,00",
	})
	rs, _ := newResolver(doc, vendorBRules{})

	id, ok := rs.resolveIdentifier(recordWindow{boundary: 1, prev: -1, next: 5})
	if !ok {
		t.Fatal("expected identifier to be found")
	}
	if id != "X9111AB" {
		t.Errorf("identifier = %q, want X9111AB", id)
	}

	id, ok = rs.resolveIdentifier(recordWindow{boundary: 5, prev: 1, next: doc.Len()})
	if !ok {
		t.Fatal("expected identifier to be found")
	}
	if id != "X9112AC" {
		t.Errorf("identifier = %q, want X9112AC", id)
	}
}

func TestResolveDropsRecordWithoutIdentifier(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Quantity",
		"Months",
		"001", "1", "1-12", "1.272,00", "15.264,00",
	})
	rs, report := newResolver(doc, subscriptionRules{})

	_, ok := rs.resolve(recordWindow{boundary: 2, prev: -1, next: doc.Len()})
	if ok {
		t.Fatal("expected record without identifier to be dropped")
	}
	if report.DroppedNoID != 1 {
		t.Errorf("DroppedNoID = %d, want 1", report.DroppedNoID)
	}
}

// The documented ordinal rule: with four or more non-zero candidates the
// total sits at position 4, which lines up with the Bid Total Commit Value
// column of the wide layout.
func TestResolveAmountsOrdinalSelection(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001",
		"0,00",
		"0,00",
		"215.712,00",
		"215.712,00",
		"107.856,00",
		"99.227,52",
	})
	rs, _ := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if got := rec.Total(); got != 99227.52 {
		t.Errorf("total = %v, want 99227.52", got)
	}
	if got := rec.UnitPrice(); got != 215712.00 {
		t.Errorf("unit price = %v, want 215712.00", got)
	}
}

func TestResolveAmountsTwoCandidates(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001", "1", "1-12", "1.272,00", "15.264,00",
	})
	rs, _ := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if got := rec.Total(); got != 15264.00 {
		t.Errorf("total = %v, want 15264.00", got)
	}
	if got := rec.UnitPrice(); got != 1272.00 {
		t.Errorf("unit price = %v, want 1272.00", got)
	}
}

func TestResolveAmountsAllZero(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001", "1", "1-12", "0,00", "0,00", "0,00 USD",
	})
	rs, report := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if got := rec.Total(); got != 0 {
		t.Errorf("total = %v, want 0", got)
	}
	if report.AllZeroAmounts != 1 {
		t.Errorf("AllZeroAmounts = %d, want 1", report.AllZeroAmounts)
	}
}

func TestResolveAmountsNoneFound(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001", "1", "1-12", "pending pricing",
	})
	rs, report := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if len(rec.Amounts) != 0 {
		t.Errorf("expected no amounts, got %v", rec.Amounts)
	}
	if report.MissingAmounts != 1 {
		t.Errorf("MissingAmounts = %d, want 1", report.MissingAmounts)
	}
}

func TestResolveAmountWindowStopsAtNextBoundary(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001", "1", "1-12", "1.272,00",
		"002", "1", "13-24", "9.999,99",
	})
	rs, _ := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: 5})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if got := rec.Total(); got != 1272.00 {
		t.Errorf("total = %v, want 1272.00 (must not read past next boundary)", got)
	}
}

func TestResolveQuantityFallback(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001", "not a number", "1-12", "1.272,00", "15.264,00",
	})
	rs, report := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if rec.Quantity != 1 || !rec.QuantityDefaulted {
		t.Errorf("quantity = %d (defaulted=%v), want fallback 1", rec.Quantity, rec.QuantityDefaulted)
	}
	if report.QuantityFallbacks != 1 {
		t.Errorf("QuantityFallbacks = %d, want 1", report.QuantityFallbacks)
	}
}

func TestResolveRangeFallback(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"Subscription Part#: D28B4LL",
		"001", "1", "Annual", "1.272,00", "15.264,00",
	})
	rs, report := newResolver(doc, subscriptionRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 1, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if rec.Months != (MonthRange{Start: 1, End: 12}) {
		t.Errorf("months = %+v, want template default 1-12", rec.Months)
	}
	if report.RangeFallbacks != 1 {
		t.Errorf("RangeFallbacks = %d, want 1", report.RangeFallbacks)
	}
}

func TestResolveCoverageDates(t *testing.T) {
	doc := NewRawDocumentFromLines([]string{
		"D28B4LL",
		"2",
		"25-Apr-2024",
		"24-Apr-2025",
		"1.272,00", "2.544,00",
	})
	rs, _ := newResolver(doc, partsRules{})

	rec, ok := rs.resolve(recordWindow{boundary: 0, prev: -1, next: doc.Len()})
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if rec.StartDate.IsZero() || rec.EndDate.IsZero() {
		t.Fatalf("coverage dates not resolved: %+v", rec)
	}
	if rec.StartDate.Year() != 2024 || rec.EndDate.Year() != 2025 {
		t.Errorf("unexpected coverage years: %v - %v", rec.StartDate, rec.EndDate)
	}
	if rec.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", rec.Quantity)
	}
}
