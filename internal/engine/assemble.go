package engine

// GroupRecords merges contiguous runs of records sharing an identifier
// into line item groups, preserving document order. A different
// identifier closes the current run; the same identifier appearing again
// later starts a new group.
func GroupRecords(records []ExtractedRecord) []LineItemGroup {
	var groups []LineItemGroup
	for _, rec := range records {
		if n := len(groups); n > 0 && groups[n-1].Identifier == rec.Identifier {
			groups[n-1].Records = append(groups[n-1].Records, rec)
			continue
		}
		groups = append(groups, LineItemGroup{
			Identifier: rec.Identifier,
			Records:    []ExtractedRecord{rec},
		})
	}
	return groups
}
