package attrs

import (
	"fmt"
	"strings"
)

// Precision is the per-operand numeric precision knob of dot-like
// operations. It is informational for shape purposes: it never changes the
// inferred shape, only how the backend is allowed to compute the multiply.
type Precision int

const (
	PrecisionDefault Precision = iota
	PrecisionHigh
	PrecisionHighest
)

// String returns the textual IR form: DEFAULT, HIGH or HIGHEST.
func (p Precision) String() string {
	switch p {
	case PrecisionDefault:
		return "DEFAULT"
	case PrecisionHigh:
		return "HIGH"
	case PrecisionHighest:
		return "HIGHEST"
	}
	return fmt.Sprintf("PrecisionInvalid(%d)", int(p))
}

// ParsePrecision converts the textual form back to a Precision.
func ParsePrecision(text string) (Precision, error) {
	switch text {
	case "DEFAULT":
		return PrecisionDefault, nil
	case "HIGH":
		return PrecisionHigh, nil
	case "HIGHEST":
		return PrecisionHighest, nil
	}
	p := NewParser(text)
	return 0, p.SyntaxErrorf("invalid precision %q, expected DEFAULT, HIGH or HIGHEST", text)
}

// ParsePrecisionList decodes a bracketed precision list, one tag per
// multiplicand: "[DEFAULT, HIGHEST]".
func ParsePrecisionList(text string) ([]Precision, error) {
	p := NewParser(text)
	list, err := parsePrecisionList(p)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEOF() {
		return nil, p.SyntaxErrorf("unexpected trailing text after precision list")
	}
	return list, nil
}

func parsePrecisionList(p *Parser) ([]Precision, error) {
	if err := p.Expect('['); err != nil {
		return nil, err
	}
	var list []Precision
	if p.tryConsume(']') {
		return list, nil
	}
	for {
		ident, err := p.Ident()
		if err != nil {
			return nil, err
		}
		precision, err := ParsePrecision(ident)
		if err != nil {
			return nil, p.SyntaxErrorf("invalid precision %q, expected DEFAULT, HIGH or HIGHEST", ident)
		}
		list = append(list, precision)
		if p.tryConsume(',') {
			continue
		}
		if p.tryConsume(']') {
			return list, nil
		}
		return nil, p.SyntaxErrorf("expected ',' or ']' in precision list")
	}
}

// FormatPrecisionList renders the precision list in the textual IR form.
func FormatPrecisionList(list []Precision) string {
	parts := make([]string, len(list))
	for ii, precision := range list {
		parts[ii] = precision.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
