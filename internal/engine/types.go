package engine

import "time"

// TemplateKind identifies the layout family of a quotation document.
// It is assigned once per document and selects the ruleset used for
// every record in it.
type TemplateKind string

const (
	TemplateUnknown      TemplateKind = "unknown"
	TemplateSubscription TemplateKind = "subscription-billing-schedule"
	TemplateParts        TemplateKind = "parts-with-coverage-dates"
	TemplateVendorB      TemplateKind = "vendor-b-form"
)

// Line is one extracted text line together with its page of origin.
type Line struct {
	Page int
	Text string
}

// RawDocument is the ordered line stream of one quotation document.
// It is built once by the document source and never mutated afterwards;
// all extraction works through index arithmetic over this sequence.
type RawDocument struct {
	lines []Line
}

// NewRawDocument builds a document from per-page line slices, concatenated
// in page order. Lines are stored verbatim; trimming happens at match time.
func NewRawDocument(pages [][]string) *RawDocument {
	doc := &RawDocument{}
	for p, page := range pages {
		for _, text := range page {
			doc.lines = append(doc.lines, Line{Page: p + 1, Text: text})
		}
	}
	return doc
}

// NewRawDocumentFromLines builds a single-page document. Used by tests and
// by callers that already have a flat line stream.
func NewRawDocumentFromLines(lines []string) *RawDocument {
	return NewRawDocument([][]string{lines})
}

// Len returns the number of lines in the document.
func (d *RawDocument) Len() int { return len(d.lines) }

// Line returns the raw text of line i.
func (d *RawDocument) Line(i int) string { return d.lines[i].Text }

// Page returns the 1-based page number line i came from.
func (d *RawDocument) Page(i int) int { return d.lines[i].Page }

// MonthRange is an inclusive start/end month pair such as 1-12.
// The zero value means "no range resolved".
type MonthRange struct {
	Start int
	End   int
}

// IsZero reports whether no range was resolved.
func (r MonthRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

// AmountRole tags what a resolved monetary amount means within a record.
type AmountRole string

const (
	RoleUnitPrice AmountRole = "unit"
	RoleTotal     AmountRole = "total"
)

// Amount is one canonical monetary value. The original token and its
// currency code are retained; the engine never re-denominates.
type Amount struct {
	Role     AmountRole
	Token    string
	Value    float64
	Currency string
}

// ExtractedRecord is the resolved output of one record boundary.
type ExtractedRecord struct {
	// Boundary is the line index of the boundary this record came from.
	Boundary int

	Identifier  string
	Description string
	// NeedsReview is set by the description corrector when the identifier
	// is missing from the master mapping.
	NeedsReview bool

	Quantity int
	// QuantityDefaulted marks the quantity = 1 fallback.
	QuantityDefaulted bool

	StartDate time.Time
	EndDate   time.Time
	Months    MonthRange

	Amounts []Amount
}

// Total returns the canonical total amount of the record, or 0 when no
// total was resolved.
func (r *ExtractedRecord) Total() float64 {
	for _, a := range r.Amounts {
		if a.Role == RoleTotal {
			return a.Value
		}
	}
	return 0
}

// UnitPrice returns the canonical unit price, or 0 when none was resolved.
func (r *ExtractedRecord) UnitPrice() float64 {
	for _, a := range r.Amounts {
		if a.Role == RoleUnitPrice {
			return a.Value
		}
	}
	return 0
}

// LineItemGroup is a contiguous run of records sharing one identifier,
// representing one logical billed item spanning several coverage periods.
type LineItemGroup struct {
	Identifier string
	Records    []ExtractedRecord
}

// TotalValue sums the resolved totals of the member records. The assembler
// never invents a price, it only aggregates.
func (g *LineItemGroup) TotalValue() float64 {
	var sum float64
	for i := range g.Records {
		sum += g.Records[i].Total()
	}
	return sum
}

// HeaderInfo holds the labelled header fields harvested from the document,
// keyed by label. Missing labels are simply absent.
type HeaderInfo map[string]string

// ExtractionReport tallies the recoverable anomalies of one document run so
// operators can tell a correctly extracted zero from a heuristic miss.
type ExtractionReport struct {
	Boundaries        int
	Emitted           int
	DroppedNoID       int
	QuantityFallbacks int
	RangeFallbacks    int
	MissingAmounts    int
	AllZeroAmounts    int
}

// Result is the complete output of one document extraction.
type Result struct {
	Kind    TemplateKind
	Records []ExtractedRecord
	// Groups is populated only for layouts that group multi-period rows;
	// for all other layouts one record is one logical item.
	Groups []LineItemGroup
	Header HeaderInfo
	Report ExtractionReport
}

// Items returns the number of logical line items in the result.
func (r *Result) Items() int {
	if len(r.Groups) > 0 {
		return len(r.Groups)
	}
	return len(r.Records)
}
