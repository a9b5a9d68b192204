package engine

import (
	"regexp"
	"strings"
	"unicode"
)

// The pattern library: a fixed set of stateless recognizers over single
// lines. Higher components supply the context (window, direction, count).

var (
	// reSequenceBoundary matches the 3-digit line counters that open a
	// billing-schedule table row (001..099).
	reSequenceBoundary = regexp.MustCompile(`^00[1-9]$|^0[1-9][0-9]$`)

	// reItemBoundary matches the "Item NNN" row openers of the vendor B
	// order form.
	reItemBoundary = regexp.MustCompile(`^Item \d{1,3}$`)

	// rePartCode matches uppercase alphanumeric part codes such as
	// "D28B4LL". Candidates still need the letter+digit and length checks
	// applied by FindIdentifier.
	rePartCode = regexp.MustCompile(`\b[A-Z][A-Z0-9]{4,8}\b`)

	// reAmountToken matches grouped-digit amounts with two decimals,
	// optionally suffixed by a currency code ("15.264,00", "0,00 USD").
	reAmountToken = regexp.MustCompile(`\b\d{1,3}(?:[.,]\d{3})*[.,]\d{2}(?:\s*[A-Z]{3})?\b`)
)

const (
	minIdentifierLen = 5
	maxIdentifierLen = 20
)

// IsSequenceBoundary reports whether a line is a 3-digit table row counter.
func IsSequenceBoundary(line string) bool {
	return reSequenceBoundary.MatchString(strings.TrimSpace(line))
}

// IsItemBoundary reports whether a line is a vendor B item row opener.
func IsItemBoundary(line string) bool {
	return reItemBoundary.MatchString(strings.TrimSpace(line))
}

// FindIdentifier returns the identifier-shaped token of a line, if any.
// The first part-code match is validated for the identifier contract: it
// must contain at least one letter and one digit and have length within
// [5,20]. A line whose first match fails validation yields no identifier.
func FindIdentifier(line string) (string, bool) {
	code := rePartCode.FindString(line)
	if code == "" {
		return "", false
	}
	if !hasLetterAndDigit(code) {
		return "", false
	}
	if len(code) < minIdentifierLen || len(code) > maxIdentifierLen {
		return "", false
	}
	return code, true
}

// IsIdentifierLine reports whether the trimmed line consists solely of a
// valid identifier token. Used as the parts-table boundary recognizer.
func IsIdentifierLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	code, ok := FindIdentifier(trimmed)
	return ok && code == trimmed
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// AmountToken is one amount candidate found on a line. Token is the bare
// amount with any currency suffix stripped; Currency keeps the suffix
// (empty when the line carried none).
type AmountToken struct {
	Token    string
	Currency string
}

// FindAmountTokens returns all amount candidates on a line in order of
// appearance. A line with several amounts contributes several candidates.
func FindAmountTokens(line string) []AmountToken {
	matches := reAmountToken.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]AmountToken, 0, len(matches))
	for _, m := range matches {
		tok := AmountToken{Token: m}
		if i := strings.IndexFunc(m, unicode.IsLetter); i >= 0 {
			tok.Currency = strings.TrimSpace(m[i:])
			tok.Token = strings.TrimSpace(m[:i])
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// IsZeroAmountToken applies the "0," prefix test that separates zero
// candidates from priced ones during amount disambiguation. The test runs
// on the currency-stripped token.
func IsZeroAmountToken(token string) bool {
	return strings.HasPrefix(token, "0,")
}

// FindDates returns all dd-MMM-yyyy tokens on a line, in order.
func FindDates(line string) []string {
	return reDateToken.FindAllString(line, -1)
}
