package query

import (
	"regexp"
	"strconv"
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)h`)
	minutesRe = regexp.MustCompile(`(\d+)m`)
)

// ParseDuration reads a "{H}h {M}m" estimate as minutes. Missing tokens
// count as 0, so "45m" and "3h" both parse.
func ParseDuration(s string) int {
	return tokenValue(hoursRe, s)*60 + tokenValue(minutesRe, s)
}

func tokenValue(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// FormatDuration renders minutes in the catalog's "{H}h {M}m" form.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return strconv.Itoa(minutes/60) + "h " + strconv.Itoa(minutes%60) + "m"
}
