package engine

import "strings"

// headerLabels are the labelled quotation header fields harvested from the
// line stream. Values either follow the label on the same line after a
// colon, or sit alone on the next non-empty line.
var headerLabels = []string{
	"Customer Name",
	"Reseller Name",
	"Bid Number",
	"PA Agreement Number",
	"PA Site Number",
	"IBM Opportunity Number",
	"Select Territory",
	"Government Entity (GOE)",
	"Maximum End User Price (MEP)",
}

// HarvestHeader scans the document once and collects the header fields it
// can find. The first occurrence of a label wins.
func HarvestHeader(doc *RawDocument) HeaderInfo {
	info := make(HeaderInfo)
	for i := 0; i < doc.Len(); i++ {
		line := strings.TrimSpace(doc.Line(i))
		for _, label := range headerLabels {
			if _, seen := info[label]; seen {
				continue
			}
			if !strings.HasPrefix(line, label) {
				continue
			}
			rest := strings.TrimSpace(strings.TrimPrefix(line, label))
			rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			if rest == "" {
				rest = nextNonEmpty(doc, i+1)
			}
			if rest != "" {
				info[label] = rest
			}
		}
	}
	return info
}

func nextNonEmpty(doc *RawDocument, from int) string {
	for i := from; i < doc.Len() && i < from+3; i++ {
		if v := strings.TrimSpace(doc.Line(i)); v != "" {
			return v
		}
	}
	return ""
}
