package widget

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Domain ranges for date segments.
const (
	minDay   = 1
	maxDay   = 31
	minMonth = 1
	maxMonth = 12
	minYear  = 1000
	maxYear  = 9999
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear applies the Gregorian leap year rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year. Months outside
// 1..12 report 31 so an unknown month never narrows the day range.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 31
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month-1]
}

// DigitsOnly strips every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeInteger keeps ASCII digits and a single leading minus sign.
func SanitizeInteger(s string) string {
	for _, r := range s {
		if r == '-' {
			return "-" + DigitsOnly(s)
		}
		if r >= '0' && r <= '9' {
			break
		}
	}
	return DigitsOnly(s)
}

// SanitizeFraction keeps ASCII digits and truncates to precision places.
func SanitizeFraction(s string, precision int) string {
	if precision <= 0 {
		return ""
	}
	return truncate(DigitsOnly(s), precision)
}

// SanitizeNumber normalises free text into "<integer>" or
// "<integer>.<fraction>" with at most precision fraction digits. Only the
// first decimal point counts; later ones are dropped together with anything
// that is not a digit.
func SanitizeNumber(s string, precision int) string {
	integer, fraction, _ := strings.Cut(s, ".")
	return composeNumber(SanitizeInteger(integer), SanitizeFraction(fraction, precision))
}

func composeNumber(integer, fraction string) string {
	if fraction == "" {
		if integer == "-" {
			return ""
		}
		return integer
	}
	if integer == "" || integer == "-" {
		integer += "0"
	}
	return integer + "." + fraction
}

// ParseBool reads the loose boolean spellings hosts tend to write:
// true, 1, yes and on (any case). Everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// FormatBool is the canonical boolean form.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// sanitizeDateSegment strips non digits, truncates to maxLen and clamps into
// the segment's domain range. The upper bound applies as soon as it is
// exceeded; the lower bound only once the segment is complete, so partial
// input such as a leading zero or the first digits of a year stays editable.
func sanitizeDateSegment(kind SegmentKind, text string, maxLen int) string {
	s := DigitsOnly(text)
	if maxLen > 0 {
		s = truncate(s, maxLen)
	}
	if s == "" {
		return s
	}
	lo, hi := segmentRange(kind)
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	switch {
	case n > hi:
		n = hi
	case n < lo && len(s) == maxLen:
		n = lo
	default:
		return s
	}
	return padInt(n, len(s))
}

func segmentRange(kind SegmentKind) (int, int) {
	switch kind {
	case SegmentDay:
		return minDay, maxDay
	case SegmentMonth:
		return minMonth, maxMonth
	case SegmentYear:
		return minYear, maxYear
	}
	return 0, int(^uint(0) >> 1)
}

// clampDay lowers a day segment to maxDays, keeping the text width.
func clampDay(text string, maxDays int) string {
	if text == "" {
		return text
	}
	n, err := strconv.Atoi(text)
	if err != nil || n <= maxDays {
		return text
	}
	return padInt(maxDays, max(len(text), 2))
}

func padInt(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
