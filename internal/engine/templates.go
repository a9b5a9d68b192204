package engine

// templateRules is the per-layout ruleset: each template kind owns its
// boundary recognizer, field offsets, and grouping behavior so rulesets
// stay isolated and testable per template. No record ever mixes rulesets.
type templateRules interface {
	Kind() TemplateKind
	// IsBoundary reports whether a line opens a record of this layout.
	IsBoundary(line string) bool
	// identifierForward reports whether the part code sits inside the
	// record's own forward window rather than before the boundary.
	identifierForward() bool
	// quantityOffset is the fixed line offset of the quantity after the
	// boundary.
	quantityOffset() int
	// rangeOffset is the fixed line offset of the duration/month range, or
	// -1 for layouts that resolve coverage dates from the window instead.
	rangeOffset() int
	// defaultRange is substituted when the range line fails to parse.
	defaultRange() MonthRange
	// groups reports whether consecutive records sharing an identifier
	// form one logical line item.
	groups() bool
}

// allRulesets is the fixed classifier priority ordering: earlier entries
// win classification ties.
var allRulesets = []templateRules{
	subscriptionRules{},
	partsRules{},
	vendorBRules{},
}

func rulesetFor(kind TemplateKind) (templateRules, bool) {
	for _, r := range allRulesets {
		if r.Kind() == kind {
			return r, true
		}
	}
	return nil, false
}

// subscriptionRules covers the multi-period billing schedule layout:
// rows open with a 3-digit counter, quantity on the next line, month
// range on the one after, and consecutive rows of one subscription part
// group into a single logical item.
type subscriptionRules struct{}

func (subscriptionRules) Kind() TemplateKind        { return TemplateSubscription }
func (subscriptionRules) IsBoundary(line string) bool { return IsSequenceBoundary(line) }
func (subscriptionRules) identifierForward() bool   { return false }
func (subscriptionRules) quantityOffset() int       { return 1 }
func (subscriptionRules) rangeOffset() int          { return 2 }
func (subscriptionRules) defaultRange() MonthRange  { return MonthRange{Start: 1, End: 12} }
func (subscriptionRules) groups() bool              { return true }

// partsRules covers the parts table with coverage dates: rows open with a
// bare part code at the table column, quantity follows, and coverage is a
// pair of dd-MMM-yyyy dates somewhere in the row's forward window.
type partsRules struct{}

func (partsRules) Kind() TemplateKind          { return TemplateParts }
func (partsRules) IsBoundary(line string) bool { return IsIdentifierLine(line) }
func (partsRules) identifierForward() bool     { return false }
func (partsRules) quantityOffset() int         { return 1 }
func (partsRules) rangeOffset() int            { return -1 }
func (partsRules) defaultRange() MonthRange    { return MonthRange{} }
func (partsRules) groups() bool                { return false }

// vendorBRules covers the vendor B order form: rows open with "Item NNN",
// quantity follows, no duration column. Unlike the other layouts the part
// code is part of the row itself ("P/N ..."), after the boundary, so the
// identifier is resolved inside the record's forward window.
type vendorBRules struct{}

func (vendorBRules) Kind() TemplateKind          { return TemplateVendorB }
func (vendorBRules) IsBoundary(line string) bool { return IsItemBoundary(line) }
func (vendorBRules) identifierForward() bool     { return true }
func (vendorBRules) quantityOffset() int         { return 1 }
func (vendorBRules) rangeOffset() int            { return -1 }
func (vendorBRules) defaultRange() MonthRange    { return MonthRange{} }
func (vendorBRules) groups() bool                { return false }
