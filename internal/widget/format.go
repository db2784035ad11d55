package widget

import "strings"

// SegmentKind names an editable field of a segmented value.
type SegmentKind int

const (
	SegmentDay SegmentKind = iota + 1
	SegmentMonth
	SegmentYear
	SegmentInteger
	SegmentFraction
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentDay:
		return "day"
	case SegmentMonth:
		return "month"
	case SegmentYear:
		return "year"
	case SegmentInteger:
		return "integer"
	case SegmentFraction:
		return "fraction"
	default:
		return "literal"
	}
}

// Token is one element of a FormatSpec: either a Literal or an editable
// segment with a maximum length (0 means unbounded).
type Token struct {
	Literal   string
	Kind      SegmentKind
	MaxLength int
}

// IsLiteral reports whether the token is fixed text.
func (t Token) IsLiteral() bool { return t.Kind == 0 }

// FormatSpec is the ordered layout of a segmented value.
type FormatSpec []Token

// DefaultDatePattern is used when a date editor is given an empty pattern.
const DefaultDatePattern = "dd.mm.yyyy"

// NumberSeparator joins the integer and fraction segments.
const NumberSeparator = "."

// ParseDatePattern scans a pattern such as "dd.mm.yyyy" into tokens. Runs of
// d, m and y (either case) become day, month and year segments; every other
// character is literal text, with adjacent literals merged.
func ParseDatePattern(pattern string) FormatSpec {
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	var (
		out FormatSpec
		lit strings.Builder
		run rune
	)
	flushLiteral := func() {
		if lit.Len() > 0 {
			out = append(out, Token{Literal: lit.String()})
			lit.Reset()
		}
	}
	for _, r := range pattern {
		lower := r | 0x20
		switch lower {
		case 'd', 'm', 'y':
			if run == lower {
				continue
			}
			flushLiteral()
			run = lower
			out = append(out, dateToken(lower))
		default:
			run = 0
			lit.WriteRune(r)
		}
	}
	flushLiteral()
	return out
}

func dateToken(r rune) Token {
	switch r {
	case 'd':
		return Token{Kind: SegmentDay, MaxLength: 2}
	case 'm':
		return Token{Kind: SegmentMonth, MaxLength: 2}
	default:
		return Token{Kind: SegmentYear, MaxLength: 4}
	}
}

// NumberPattern lays out an integer segment and, when precision > 0, the
// separator and a fraction segment of precision digits.
func NumberPattern(precision int) FormatSpec {
	out := FormatSpec{{Kind: SegmentInteger}}
	if precision > 0 {
		out = append(out,
			Token{Literal: NumberSeparator},
			Token{Kind: SegmentFraction, MaxLength: precision},
		)
	}
	return out
}

// Segments returns only the editable tokens, in order.
func (f FormatSpec) Segments() []Token {
	out := make([]Token, 0, len(f))
	for _, t := range f {
		if !t.IsLiteral() {
			out = append(out, t)
		}
	}
	return out
}

// literalAfter returns the literal text that directly follows the n-th
// segment, or "" when the next token is another segment or the end.
func (f FormatSpec) literalAfter(n int) string {
	seen := -1
	for i, t := range f {
		if t.IsLiteral() {
			continue
		}
		seen++
		if seen == n {
			if i+1 < len(f) && f[i+1].IsLiteral() {
				return f[i+1].Literal
			}
			return ""
		}
	}
	return ""
}
