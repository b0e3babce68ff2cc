// Package attrs defines the structured attributes attached to operations and
// the generic keyed-attribute codec used to parse and print their textual
// form.
//
// The textual form follows the StableHLO attribute grammar: a mnemonic and a
// set of "keyword = value" clauses between angle brackets,
//
//	<ragged_dot_dims lhs_batching_dimensions = [0], rhs_group_dimensions = [0]>
//
// Clauses may appear in any order; printing always uses the canonical field
// order and omits fields holding their default value, so parse and print
// normalize rather than round-trip byte-for-byte.
//
// StructCodec is the reusable parse/print loop; each attribute kind supplies
// only its field table (keyword, parse closure, print closure). Parse errors
// carry the line/column location for the host compiler's diagnostics.
package attrs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomlx/raggeddot/types"
	"github.com/pkg/errors"
)

// Location of a syntax error within the attribute text, 1-based.
type Location struct {
	Line, Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// SyntaxError reports malformed attribute text: a bad token, a missing
// delimiter or an invalid field value.
type SyntaxError struct {
	Location Location
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// DuplicateFieldError reports a keyword given more than once in one
// attribute.
type DuplicateFieldError struct {
	Location Location
	Keyword  string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s: duplicate field %q", e.Location, e.Keyword)
}

// UnknownFieldError reports a keyword that is not part of the attribute being
// parsed.
type UnknownFieldError struct {
	Location      Location
	Got           string
	ExpectedOneOf []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q, expected one of [%s]",
		e.Location, e.Got, strings.Join(e.ExpectedOneOf, ", "))
}

// Field describes one keyed field of a struct-valued attribute.
//
// Parse consumes the field's value from the Parser (the keyword and, when
// HasEquals, the "=" have already been consumed). Print renders the current
// value and returns ok=false when the field holds its default and should be
// omitted from the canonical form.
type Field struct {
	Keyword   string
	HasEquals bool
	Parse     func(p *Parser) error
	Print     func() (text string, ok bool)
}

// StructCodec parses and prints one struct-valued attribute kind, driven by
// its field table. The zero or more fields may be given in any textual order;
// Fields fixes the canonical print order.
type StructCodec struct {
	Mnemonic string
	Fields   []Field
}

// Parse decodes the textual attribute form into the destinations bound by the
// field table. It expects "<mnemonic field, field, ...>" with nothing but
// whitespace after the closing delimiter.
func (c *StructCodec) Parse(text string) error {
	p := NewParser(text)
	if err := p.Expect('<'); err != nil {
		return err
	}
	mnemonic, err := p.Ident()
	if err != nil {
		return err
	}
	if mnemonic != c.Mnemonic {
		return p.SyntaxErrorf("expected attribute mnemonic %q, got %q", c.Mnemonic, mnemonic)
	}

	seen := types.MakeSet[string](len(c.Fields))
	keywords := make([]string, len(c.Fields))
	for ii, field := range c.Fields {
		keywords[ii] = field.Keyword
	}
	for {
		p.skipSpace()
		if p.tryConsume('>') {
			break
		}
		loc := p.location()
		keyword, err := p.Ident()
		if err != nil {
			return err
		}
		fieldIdx := -1
		for ii, field := range c.Fields {
			if field.Keyword == keyword {
				fieldIdx = ii
				break
			}
		}
		if fieldIdx == -1 {
			return errors.WithStack(&UnknownFieldError{Location: loc, Got: keyword, ExpectedOneOf: keywords})
		}
		if seen.Has(keyword) {
			return errors.WithStack(&DuplicateFieldError{Location: loc, Keyword: keyword})
		}
		seen.Insert(keyword)
		field := c.Fields[fieldIdx]
		if field.HasEquals {
			if err := p.Expect('='); err != nil {
				return err
			}
		}
		if err := field.Parse(p); err != nil {
			return err
		}
		p.skipSpace()
		if p.tryConsume(',') {
			continue
		}
		if p.tryConsume('>') {
			break
		}
		return p.SyntaxErrorf("expected ',' or '>' after field %q", keyword)
	}
	p.skipSpace()
	if !p.atEOF() {
		return p.SyntaxErrorf("unexpected trailing text after closing '>'")
	}
	return nil
}

// String prints the canonical textual form: fields in table order, default
// (empty) fields omitted.
func (c *StructCodec) String() string {
	var parts []string
	for _, field := range c.Fields {
		text, ok := field.Print()
		if !ok {
			continue
		}
		if field.HasEquals {
			parts = append(parts, fmt.Sprintf("%s = %s", field.Keyword, text))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", field.Keyword, text))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("<%s>", c.Mnemonic)
	}
	return fmt.Sprintf("<%s %s>", c.Mnemonic, strings.Join(parts, ", "))
}

// Parser is a minimal scanner over one attribute's text, exposing the
// primitive value parsers field closures are built from.
type Parser struct {
	input     string
	pos       int
	line, col int
}

// NewParser returns a Parser at the start of text.
func NewParser(text string) *Parser {
	return &Parser{input: text, line: 1, col: 1}
}

func (p *Parser) location() Location {
	return Location{Line: p.line, Column: p.col}
}

// SyntaxErrorf returns a SyntaxError at the current position.
func (p *Parser) SyntaxErrorf(format string, args ...any) error {
	return errors.WithStack(&SyntaxError{
		Location: p.location(),
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) atEOF() bool { return p.pos >= len(p.input) }

func (p *Parser) peek() byte {
	if p.atEOF() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) advance() {
	if p.input[p.pos] == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	p.pos++
}

func (p *Parser) skipSpace() {
	for !p.atEOF() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.advance()
		default:
			return
		}
	}
}

// tryConsume consumes the given delimiter if it is the next non-space byte.
func (p *Parser) tryConsume(delimiter byte) bool {
	p.skipSpace()
	if p.peek() != delimiter {
		return false
	}
	p.advance()
	return true
}

// Expect consumes the given delimiter or fails with a SyntaxError.
func (p *Parser) Expect(delimiter byte) error {
	if !p.tryConsume(delimiter) {
		if p.atEOF() {
			return p.SyntaxErrorf("expected %q, got end of input", string(delimiter))
		}
		return p.SyntaxErrorf("expected %q, got %q", string(delimiter), string(p.peek()))
	}
	return nil
}

func isIdentByte(b byte, first bool) bool {
	if b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	return !first && b >= '0' && b <= '9'
}

// Ident consumes an identifier ([A-Za-z_][A-Za-z0-9_]*).
func (p *Parser) Ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.atEOF() && isIdentByte(p.peek(), p.pos == start) {
		p.advance()
	}
	if p.pos == start {
		return "", p.SyntaxErrorf("expected identifier")
	}
	return p.input[start:p.pos], nil
}

// Int consumes a non-negative decimal integer. Axis indices in the textual
// form are always non-negative.
func (p *Parser) Int() (int, error) {
	p.skipSpace()
	start := p.pos
	for !p.atEOF() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	if p.pos == start {
		return 0, p.SyntaxErrorf("expected non-negative integer")
	}
	value, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, p.SyntaxErrorf("invalid integer %q", p.input[start:p.pos])
	}
	return value, nil
}

// IntList consumes a bracketed, comma-separated list of non-negative
// integers: "[0, 2]". The empty list "[]" is valid.
func (p *Parser) IntList() ([]int, error) {
	if err := p.Expect('['); err != nil {
		return nil, err
	}
	var values []int
	if p.tryConsume(']') {
		return values, nil
	}
	for {
		value, err := p.Int()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		if p.tryConsume(',') {
			continue
		}
		if p.tryConsume(']') {
			return values, nil
		}
		return nil, p.SyntaxErrorf("expected ',' or ']' in integer list")
	}
}

// FormatIntList renders an axis list in the attribute textual form: "[0, 2]".
func FormatIntList(values []int) string {
	parts := make([]string, len(values))
	for ii, value := range values {
		parts[ii] = strconv.Itoa(value)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
