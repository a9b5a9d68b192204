package engine

import "testing"

func TestIsSequenceBoundary(t *testing.T) {
	for _, line := range []string{"001", "009", "010", "042", "099", "  003  "} {
		if !IsSequenceBoundary(line) {
			t.Errorf("expected %q to be a sequence boundary", line)
		}
	}
	for _, line := range []string{"000", "100", "01", "0010", "001a", "Line 001"} {
		if IsSequenceBoundary(line) {
			t.Errorf("expected %q not to be a sequence boundary", line)
		}
	}
}

func TestFindIdentifier(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{"Subscription Part#: D28B4LL", "D28B4LL", true},
		{"D28B4LL", "D28B4LL", true},
		{"IBM Maximo Application Suite per AppPoint Subscription License", "", false},
		{"Billing: Annual", "", false},
		{"1.272,00", "", false},
		// all-letter codes fail the digit requirement
		{"LICENSE terms apply", "", false},
		// the first token match is the one validated
		{"TOTAL D28B4LL", "", false},
	}
	for _, c := range cases {
		got, ok := FindIdentifier(c.line)
		if ok != c.ok || got != c.want {
			t.Errorf("FindIdentifier(%q) = %q, %v; want %q, %v", c.line, got, ok, c.want, c.ok)
		}
	}
}

func TestIsIdentifierLine(t *testing.T) {
	if !IsIdentifierLine("  D28B4LL ") {
		t.Error("expected bare part code line to match")
	}
	if IsIdentifierLine("Subscription Part#: D28B4LL") {
		t.Error("expected labelled part code line not to match")
	}
}

func TestFindAmountTokens(t *testing.T) {
	tokens := FindAmountTokens("99.227,52 99.227,52 USD")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Token != "99.227,52" || tokens[0].Currency != "" {
		t.Errorf("unexpected first token: %+v", tokens[0])
	}
	if tokens[1].Token != "99.227,52" || tokens[1].Currency != "USD" {
		t.Errorf("unexpected second token: %+v", tokens[1])
	}

	if got := FindAmountTokens("1-12"); got != nil {
		t.Errorf("month range should not yield amounts, got %v", got)
	}
	if got := FindAmountTokens("0,000"); got != nil {
		t.Errorf("three-decimal rate should not yield amounts, got %v", got)
	}
}

func TestIsZeroAmountToken(t *testing.T) {
	if !IsZeroAmountToken("0,00") {
		t.Error("0,00 should be a zero token")
	}
	if IsZeroAmountToken("10,00") || IsZeroAmountToken("215.712,00") {
		t.Error("priced tokens misclassified as zero")
	}
}

func TestFindDates(t *testing.T) {
	dates := FindDates("Coverage 25-Apr-2024 through 24-Apr-2025")
	if len(dates) != 2 || dates[0] != "25-Apr-2024" || dates[1] != "24-Apr-2025" {
		t.Fatalf("unexpected dates: %v", dates)
	}
}
