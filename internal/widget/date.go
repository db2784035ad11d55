package widget

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults read from date segments that are still empty.
const (
	defaultDay   = 1
	defaultMonth = 1
	defaultYear  = 1970
	// clampYear bounds the day while the year is unknown; it is a leap year
	// so 29 February stays reachable.
	clampYear = 2000
)

// DateEditor is a segmented editor for calendar dates. Its canonical value is
// "YYYY-MM-DD". Empty segments read as day 1, month 1 and year 1970; the value
// is "" when every segment is empty, when the pattern lacks a day, month or
// year, or when a segment is out of range.
type DateEditor struct {
	*Segmented
	pattern string
}

// NewDate mounts a date editor laid out by pattern (see ParseDatePattern).
func NewDate(pattern string, opts Options) *DateEditor {
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	return &DateEditor{
		Segmented: newSegmented(dateCodec{}, ParseDatePattern(pattern), opts),
		pattern:   pattern,
	}
}

// Pattern returns the current layout pattern.
func (d *DateEditor) Pattern() string { return d.pattern }

// SetPattern rebuilds the segments for a new pattern and re-applies the
// current value. An unchanged pattern is a no-op.
func (d *DateEditor) SetPattern(pattern string) {
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	if pattern == d.pattern {
		return
	}
	prev := d.Value()
	d.pattern = pattern
	d.rebuild(ParseDatePattern(pattern), prev)
}

type dateCodec struct{}

func findField(fs []*field, kind SegmentKind) *field {
	for _, f := range fs {
		if f.kind == kind {
			return f
		}
	}
	return nil
}

// part reads a segment as a number. An empty segment reads as def; a segment
// missing from the layout leaves the date without a value.
func (dateCodec) part(fs []*field, kind SegmentKind, def int) (int, bool) {
	f := findField(fs, kind)
	if f == nil {
		return 0, false
	}
	if f.text == "" {
		return def, true
	}
	n, err := strconv.Atoi(f.text)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c dateCodec) compose(fs []*field) string {
	if allEmpty(fs) {
		return ""
	}
	day, okDay := c.part(fs, SegmentDay, defaultDay)
	month, okMonth := c.part(fs, SegmentMonth, defaultMonth)
	year, okYear := c.part(fs, SegmentYear, defaultYear)
	if !okDay || !okMonth || !okYear {
		return ""
	}
	if day < minDay || month < minMonth || month > maxMonth || year < minYear || year > maxYear {
		return ""
	}
	if day > DaysInMonth(month, year) {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func allEmpty(fs []*field) bool {
	for _, f := range fs {
		if f.text != "" {
			return false
		}
	}
	return true
}

func (c dateCodec) decompose(v string, fs []*field) {
	if v == "" {
		for _, f := range fs {
			f.text = ""
		}
		return
	}
	year, month, day, ok := splitISODate(v)
	if !ok {
		return
	}
	for _, f := range fs {
		switch f.kind {
		case SegmentYear:
			f.text = sanitizeDateSegment(SegmentYear, padInt(year, 4), f.maxLen)
		case SegmentMonth:
			f.text = sanitizeDateSegment(SegmentMonth, padInt(month, 2), f.maxLen)
		}
	}
	if f := findField(fs, SegmentDay); f != nil {
		f.text = clampDay(sanitizeDateSegment(SegmentDay, padInt(day, 2), f.maxLen), c.maxDays(fs))
	}
}

func (c dateCodec) sanitizeField(fs []*field, i int, raw string) string {
	f := fs[i]
	clean := sanitizeDateSegment(f.kind, raw, f.maxLen)
	if f.kind == SegmentDay {
		clean = clampDay(clean, c.maxDays(fs))
	}
	return clean
}

func (dateCodec) keep(_ SegmentKind, raw string) string { return DigitsOnly(raw) }

func (c dateCodec) revalidate(fs []*field, i int) {
	if fs[i].kind != SegmentMonth && fs[i].kind != SegmentYear {
		return
	}
	if day := findField(fs, SegmentDay); day != nil {
		day.text = clampDay(day.text, c.maxDays(fs))
	}
}

func (c dateCodec) normalize(v string) string {
	if v == "" {
		return ""
	}
	fs := []*field{
		{kind: SegmentDay, maxLen: 2},
		{kind: SegmentMonth, maxLen: 2},
		{kind: SegmentYear, maxLen: 4},
	}
	c.decompose(v, fs)
	return c.compose(fs)
}

// maxDays is the day bound implied by the month and year segments. A missing
// or incomplete year is treated as unknown, which allows 29 February until the
// year is typed out.
func (dateCodec) maxDays(fs []*field) int {
	month := defaultMonth
	if f := findField(fs, SegmentMonth); f != nil && f.text != "" {
		n, err := strconv.Atoi(f.text)
		if err != nil || n < minMonth || n > maxMonth {
			return maxDay
		}
		month = n
	}
	year := clampYear
	if f := findField(fs, SegmentYear); f != nil && len(f.text) == f.maxLen {
		year, _ = strconv.Atoi(f.text)
	}
	return DaysInMonth(month, year)
}

// splitISODate reads "Y-M-D" with all-digit parts.
func splitISODate(v string) (year, month, day int, ok bool) {
	parts := strings.Split(strings.TrimSpace(v), "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" || DigitsOnly(p) != p {
			return 0, 0, 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], true
}
