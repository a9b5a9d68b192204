package engine

import (
	"log/slog"
	"strconv"
	"strings"
)

const (
	// amountSearchWindow bounds the forward scan for amount candidates:
	// the next N lines after the boundary, or the next boundary,
	// whichever comes first.
	amountSearchWindow = 10

	// Ordinal position (1-indexed) of the total among non-zero amount
	// candidates. Position 4 lines up with the "Bid Total Commit Value"
	// column of the wide table layout; narrower rows carry the total in
	// position 2. These are layout facts, not tunables: changing either
	// silently breaks pricing.
	totalOrdinalWide   = 4
	totalOrdinalNarrow = 2
)

// resolver turns record windows into extracted records under one
// template's ruleset. It only reads the document; all fallbacks and drops
// go through the logger and the report.
type resolver struct {
	doc    *RawDocument
	rules  templateRules
	logger *slog.Logger
	report *ExtractionReport
}

// resolve extracts one record from its window. ok is false when the
// record has no resolvable identifier and must be dropped.
func (rs *resolver) resolve(w recordWindow) (ExtractedRecord, bool) {
	rec := ExtractedRecord{Boundary: w.boundary, Quantity: 1}

	id, ok := rs.resolveIdentifier(w)
	if !ok {
		rs.report.DroppedNoID++
		rs.logger.Warn("record dropped: no identifier in backward scan",
			"line", w.boundary, "boundary", strings.TrimSpace(rs.doc.Line(w.boundary)))
		return rec, false
	}
	rec.Identifier = id

	rs.resolveQuantity(w, &rec)
	rs.resolveRange(w, &rec)
	rs.resolveAmounts(w, &rec)
	return rec, true
}

// resolveIdentifier returns the first valid identifier token in the
// direction the ruleset dictates. Layouts carrying the part code on the
// row itself scan forward within the record's own window. The others scan
// backward from the boundary toward the document start, running through
// earlier boundaries on purpose: in multi-period schedules every row of a
// part references the single part-code line above the table.
func (rs *resolver) resolveIdentifier(w recordWindow) (string, bool) {
	if rs.rules.identifierForward() {
		for i := w.boundary + 1; i < w.next && i < rs.doc.Len(); i++ {
			if id, ok := FindIdentifier(rs.doc.Line(i)); ok {
				return id, true
			}
		}
		return "", false
	}
	for i := w.boundary - 1; i >= 0; i-- {
		if id, ok := FindIdentifier(rs.doc.Line(i)); ok {
			return id, true
		}
	}
	return "", false
}

// resolveQuantity reads the quantity at the ruleset's fixed offset. A line
// that does not parse as a non-negative integer leaves the quantity = 1
// fallback in place; that is a logged condition, not an error.
func (rs *resolver) resolveQuantity(w recordWindow, rec *ExtractedRecord) {
	i := w.boundary + rs.rules.quantityOffset()
	if i < w.next && i < rs.doc.Len() {
		if qty, err := strconv.Atoi(strings.TrimSpace(rs.doc.Line(i))); err == nil && qty >= 0 {
			rec.Quantity = qty
			return
		}
	}
	rec.QuantityDefaulted = true
	rs.report.QuantityFallbacks++
	rs.logger.Info("quantity fallback to 1",
		"line", w.boundary, "identifier", rec.Identifier)
}

// resolveRange reads the month range at the ruleset's fixed offset, or,
// for date-based layouts, picks the first two dd-MMM-yyyy tokens in the
// forward window as the coverage start and end.
func (rs *resolver) resolveRange(w recordWindow, rec *ExtractedRecord) {
	off := rs.rules.rangeOffset()
	if off < 0 {
		rs.resolveDates(w, rec)
		return
	}

	i := w.boundary + off
	if i < w.next && i < rs.doc.Len() {
		if r, ok := ParseMonthRange(rs.doc.Line(i)); ok {
			rec.Months = r
			return
		}
	}
	rec.Months = rs.rules.defaultRange()
	rs.report.RangeFallbacks++
	rs.logger.Info("duration fallback to template default",
		"line", w.boundary, "identifier", rec.Identifier)
}

func (rs *resolver) resolveDates(w recordWindow, rec *ExtractedRecord) {
	var found []string
	for i := w.boundary + 1; i < w.next && i < rs.doc.Len() && i <= w.boundary+amountSearchWindow; i++ {
		found = append(found, FindDates(rs.doc.Line(i))...)
		if len(found) >= 2 {
			break
		}
	}
	if len(found) >= 1 {
		rec.StartDate, _ = ParseDate(found[0])
	}
	if len(found) >= 2 {
		rec.EndDate, _ = ParseDate(found[1])
	}
}

// resolveAmounts collects every amount candidate in the bounded forward
// window, in document order, flattening lines with several amounts.
// Candidates passing the zero-prefix test are set aside; among the
// non-zero rest the total is taken at a fixed ordinal position. When every
// candidate is zero the first zero candidate is reported as the total,
// and the condition is logged as distinct from a true zero value.
func (rs *resolver) resolveAmounts(w recordWindow, rec *ExtractedRecord) {
	var nonZero, zero []AmountToken
	end := w.boundary + 1 + amountSearchWindow
	if w.next < end {
		end = w.next
	}
	for i := w.boundary + 1; i < end && i < rs.doc.Len(); i++ {
		for _, tok := range FindAmountTokens(rs.doc.Line(i)) {
			if IsZeroAmountToken(tok.Token) {
				zero = append(zero, tok)
			} else {
				nonZero = append(nonZero, tok)
			}
		}
	}

	switch {
	case len(nonZero) >= totalOrdinalWide:
		rs.addAmount(rec, RoleTotal, nonZero[totalOrdinalWide-1])
		rs.addAmount(rec, RoleUnitPrice, nonZero[0])
	case len(nonZero) >= totalOrdinalNarrow:
		rs.addAmount(rec, RoleTotal, nonZero[totalOrdinalNarrow-1])
		rs.addAmount(rec, RoleUnitPrice, nonZero[0])
	case len(nonZero) == 1:
		rs.addAmount(rec, RoleTotal, nonZero[0])
	case len(zero) > 0:
		rs.addAmount(rec, RoleTotal, zero[0])
		rs.report.AllZeroAmounts++
		rs.logger.Warn("all amount candidates zero",
			"line", w.boundary, "identifier", rec.Identifier, "candidates", len(zero))
	default:
		rs.report.MissingAmounts++
		rs.logger.Warn("no amount candidates in window",
			"line", w.boundary, "identifier", rec.Identifier)
	}
}

func (rs *resolver) addAmount(rec *ExtractedRecord, role AmountRole, tok AmountToken) {
	currency := tok.Currency
	if currency == "" {
		currency = "USD"
	}
	rec.Amounts = append(rec.Amounts, Amount{
		Role:     role,
		Token:    tok.Token,
		Value:    ParseAmount(tok.Token),
		Currency: currency,
	})
}
