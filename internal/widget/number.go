package widget

import (
	"strconv"
	"strings"
)

// maxPrecision bounds the fraction segment.
const maxPrecision = 12

// NumberEditor is a segmented editor for decimal numbers: an unbounded
// integer segment and, when precision > 0, a fraction segment of precision
// digits. The canonical value is "<integer>" or "<integer>.<fraction>".
type NumberEditor struct {
	*Segmented
	codec *numberCodec
}

// NewNumber mounts a number editor with the given fraction precision.
func NewNumber(precision int, opts Options) *NumberEditor {
	precision = clampInt(precision, 0, maxPrecision)
	codec := &numberCodec{precision: precision}
	return &NumberEditor{
		Segmented: newSegmented(codec, NumberPattern(precision), opts),
		codec:     codec,
	}
}

// Precision returns the number of fraction digits.
func (n *NumberEditor) Precision() int { return n.codec.precision }

// SetPrecision relays out the editor. Precision 0 removes the fraction
// segment and the separator; the current value is re-applied, truncated to
// the new precision.
func (n *NumberEditor) SetPrecision(precision int) {
	precision = clampInt(precision, 0, maxPrecision)
	if precision == n.codec.precision {
		return
	}
	prev := n.Value()
	n.codec.precision = precision
	n.rebuild(NumberPattern(precision), prev)
}

// SetPrecisionText applies a precision given as text; anything that is not a
// non-negative integer counts as 0.
func (n *NumberEditor) SetPrecisionText(s string) {
	n.SetPrecision(ParsePrecision(s))
}

// ParsePrecision reads a precision attribute, degrading to 0.
func ParsePrecision(s string) int {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 0 {
		return 0
	}
	return min(p, maxPrecision)
}

type numberCodec struct {
	precision int
}

func (c *numberCodec) compose(fs []*field) string {
	if len(fs) == 0 {
		return ""
	}
	fraction := ""
	if c.precision > 0 && len(fs) > 1 {
		fraction = fs[1].text
	}
	return composeNumber(fs[0].text, fraction)
}

func (c *numberCodec) decompose(v string, fs []*field) {
	if len(fs) == 0 {
		return
	}
	integer, fraction, _ := strings.Cut(SanitizeNumber(v, c.precision), NumberSeparator)
	fs[0].text = integer
	if len(fs) > 1 {
		fs[1].text = fraction
	}
}

func (c *numberCodec) sanitizeField(fs []*field, i int, raw string) string {
	if fs[i].kind == SegmentFraction {
		return SanitizeFraction(raw, c.precision)
	}
	return SanitizeInteger(raw)
}

func (c *numberCodec) keep(kind SegmentKind, raw string) string {
	if kind == SegmentFraction {
		return DigitsOnly(raw)
	}
	return SanitizeInteger(raw)
}

func (c *numberCodec) revalidate([]*field, int) {}

func (c *numberCodec) normalize(v string) string { return SanitizeNumber(v, c.precision) }
