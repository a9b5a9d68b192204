package engine

// recordWindow is the search window of one record boundary: the boundary
// line itself, the previous boundary (or -1), and the next boundary (or
// document length). Field resolution reads forward up to next and scans
// backward from the boundary for the identifier.
type recordWindow struct {
	boundary int
	prev     int
	next     int
}

// segment scans the line stream once and returns the window of every
// boundary the ruleset recognizes, in document order.
// Resolution is never nested: each window ends where the next begins.
func segment(doc *RawDocument, rules templateRules) []recordWindow {
	var boundaries []int
	for i := 0; i < doc.Len(); i++ {
		if rules.IsBoundary(doc.Line(i)) {
			boundaries = append(boundaries, i)
		}
	}

	windows := make([]recordWindow, len(boundaries))
	for i, b := range boundaries {
		w := recordWindow{boundary: b, prev: -1, next: doc.Len()}
		if i > 0 {
			w.prev = boundaries[i-1]
		}
		if i < len(boundaries)-1 {
			w.next = boundaries[i+1]
		}
		windows[i] = w
	}
	return windows
}
