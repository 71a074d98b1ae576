package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NormalizeAmount turns a European formatted amount into a dot-decimal one:
// "1.234,56" -> "1234.56". The result is not checked to be a number.
func NormalizeAmount(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}

type dateShape struct {
	re                    *regexp.Regexp
	yearIdx, monIdx, dIdx int
}

// dateShapes are tried in order. Hyphenated dates are always day-first.
var dateShapes = []dateShape{
	{re: regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`), yearIdx: 1, monIdx: 2, dIdx: 3},
	{re: regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`), yearIdx: 3, monIdx: 2, dIdx: 1},
	{re: regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`), yearIdx: 3, monIdx: 2, dIdx: 1},
}

// NormalizeDate rewrites YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY as YYYY-MM-DD.
// Anything else, including impossible dates such as "32-13-2024", is
// returned unchanged.
func NormalizeDate(s string) string {
	for _, shape := range dateShapes {
		m := shape.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}

		// The groups are fixed-width digits, Atoi cannot fail.
		year, _ := strconv.Atoi(m[shape.yearIdx])
		month, _ := strconv.Atoi(m[shape.monIdx])
		day, _ := strconv.Atoi(m[shape.dIdx])

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return s
		}

		return t.Format(time.DateOnly)
	}

	return s
}
