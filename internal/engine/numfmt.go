package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quotation amounts arrive in the European convention: "." groups
// thousands and "," marks decimals ("1.272,00"). Dates use the
// two-digit-day, three-letter-month, four-digit-year shape ("25-Apr-2024").

var (
	reDateToken  = regexp.MustCompile(`\b(\d{2})-([A-Za-z]{3})-(\d{4})\b`)
	reRangeToken = regexp.MustCompile(`(\d+)-(\d+)`)
)

// ParseAmount converts a locale-formatted amount token into a canonical
// float. Currency suffixes like "USD" are tolerated. Malformed tokens
// yield 0; the caller decides whether zero is meaningful.
func ParseAmount(token string) float64 {
	v := strings.TrimSpace(token)
	v = strings.TrimSpace(strings.TrimSuffix(v, "USD"))
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ".", "")
	v = strings.ReplaceAll(v, ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// ParseDate parses a dd-MMM-yyyy token. The month abbreviation is matched
// case-insensitively. Unmatched tokens yield ok=false rather than an error.
func ParseDate(token string) (time.Time, bool) {
	m := reDateToken.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false
	}
	month := strings.ToUpper(m[2][:1]) + strings.ToLower(m[2][1:])
	t, err := time.Parse("02-Jan-2006", m[1]+"-"+month+"-"+m[3])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseMonthRange extracts the two integers of an integer-dash-integer
// month range token such as "13-24". The integers are taken positionally
// from the first match anywhere in the token.
func ParseMonthRange(token string) (MonthRange, bool) {
	m := reRangeToken.FindStringSubmatch(token)
	if m == nil {
		return MonthRange{}, false
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return MonthRange{}, false
	}
	end, err := strconv.Atoi(m[2])
	if err != nil {
		return MonthRange{}, false
	}
	return MonthRange{Start: start, End: end}, true
}
