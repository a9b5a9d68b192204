package engine

import "testing"

func rec(id string, total float64) ExtractedRecord {
	return ExtractedRecord{
		Identifier: id,
		Quantity:   1,
		Amounts:    []Amount{{Role: RoleTotal, Value: total, Currency: "USD"}},
	}
}

func TestGroupRecordsContiguousRuns(t *testing.T) {
	records := []ExtractedRecord{
		rec("D28B4LL", 100),
		rec("D28B4LL", 200),
		rec("E55X9QQ", 50),
		rec("D28B4LL", 25),
	}
	groups := GroupRecords(records)

	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3 (runs, not unique identifiers)", len(groups))
	}
	if groups[0].Identifier != "D28B4LL" || len(groups[0].Records) != 2 {
		t.Errorf("unexpected first group: %+v", groups[0])
	}
	if got := groups[0].TotalValue(); got != 300 {
		t.Errorf("first group total = %v, want 300", got)
	}
	if groups[2].Identifier != "D28B4LL" || len(groups[2].Records) != 1 {
		t.Errorf("later run of same identifier must start a new group: %+v", groups[2])
	}
}

func TestGroupRecordsEmpty(t *testing.T) {
	if groups := GroupRecords(nil); groups != nil {
		t.Errorf("expected nil groups, got %v", groups)
	}
}
