package attrs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// windowAttr is a toy attribute used to exercise the generic codec: one axis
// list with "=", one bare flag-style identifier field without it.
type windowAttr struct {
	Sizes  []int
	Layout string
}

func (w *windowAttr) codec() *StructCodec {
	return &StructCodec{
		Mnemonic: "window",
		Fields: []Field{
			{
				Keyword:   "sizes",
				HasEquals: true,
				Parse: func(p *Parser) (err error) {
					w.Sizes, err = p.IntList()
					return
				},
				Print: func() (string, bool) {
					if len(w.Sizes) == 0 {
						return "", false
					}
					return FormatIntList(w.Sizes), true
				},
			},
			{
				Keyword:   "layout",
				HasEquals: false,
				Parse: func(p *Parser) (err error) {
					w.Layout, err = p.Ident()
					return
				},
				Print: func() (string, bool) {
					return w.Layout, w.Layout != ""
				},
			},
		},
	}
}

func TestStructCodecParse(t *testing.T) {
	var w windowAttr
	require.NoError(t, w.codec().Parse("<window sizes = [3, 5], layout row_major>"))
	require.Equal(t, []int{3, 5}, w.Sizes)
	require.Equal(t, "row_major", w.Layout)

	// Fields accepted in any order, whitespace and newlines ignored.
	w = windowAttr{}
	require.NoError(t, w.codec().Parse("<window\n  layout col_major,\n  sizes = [7]>"))
	require.Equal(t, []int{7}, w.Sizes)
	require.Equal(t, "col_major", w.Layout)

	// All fields optional; empty list valid.
	w = windowAttr{}
	require.NoError(t, w.codec().Parse("<window>"))
	require.Empty(t, w.Sizes)
	w = windowAttr{}
	require.NoError(t, w.codec().Parse("<window sizes = []>"))
	require.Empty(t, w.Sizes)
}

func TestStructCodecParseErrors(t *testing.T) {
	var w windowAttr

	// Wrong mnemonic.
	require.Error(t, w.codec().Parse("<pane sizes = [3]>"))

	// Duplicate field, reported with its location.
	var duplicate *DuplicateFieldError
	err := w.codec().Parse("<window sizes = [3],\n sizes = [5]>")
	require.ErrorAs(t, err, &duplicate)
	require.Equal(t, "sizes", duplicate.Keyword)
	require.Equal(t, 2, duplicate.Location.Line)

	// Unknown field lists the valid keywords.
	var unknown *UnknownFieldError
	err = w.codec().Parse("<window strides = [2]>")
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "strides", unknown.Got)
	require.Equal(t, []string{"sizes", "layout"}, unknown.ExpectedOneOf)

	// Malformed delimiters and values.
	var syntax *SyntaxError
	require.ErrorAs(t, w.codec().Parse("window sizes = [3]>"), &syntax)
	require.ErrorAs(t, w.codec().Parse("<window sizes [3]>"), &syntax)
	require.ErrorAs(t, w.codec().Parse("<window sizes = [3>"), &syntax)
	require.ErrorAs(t, w.codec().Parse("<window sizes = [a]>"), &syntax)
	require.ErrorAs(t, w.codec().Parse("<window sizes = [3]"), &syntax)
	require.ErrorAs(t, w.codec().Parse("<window sizes = [3]> trailing"), &syntax)
	require.ErrorAs(t, w.codec().Parse("<window sizes = [-1]>"), &syntax)
}

func TestStructCodecPrint(t *testing.T) {
	w := windowAttr{Sizes: []int{3, 5}, Layout: "row_major"}
	require.Equal(t, "<window sizes = [3, 5], layout row_major>", w.codec().String())

	// Default fields are omitted; canonical order is the table order, not
	// the order the user wrote them in.
	w = windowAttr{Layout: "row_major"}
	require.Equal(t, "<window layout row_major>", w.codec().String())
	w = windowAttr{}
	require.Equal(t, "<window>", w.codec().String())

	var reparsed windowAttr
	require.NoError(t, reparsed.codec().Parse("<window layout col_major, sizes = [1, 2]>"))
	require.Equal(t, "<window sizes = [1, 2], layout col_major>", reparsed.codec().String())
}

func TestPrecision(t *testing.T) {
	require.Equal(t, "DEFAULT", PrecisionDefault.String())
	require.Equal(t, "HIGH", PrecisionHigh.String())
	require.Equal(t, "HIGHEST", PrecisionHighest.String())

	for _, precision := range []Precision{PrecisionDefault, PrecisionHigh, PrecisionHighest} {
		parsed, err := ParsePrecision(precision.String())
		require.NoError(t, err)
		require.Equal(t, precision, parsed)
	}
	_, err := ParsePrecision("high")
	require.Error(t, err)

	list, err := ParsePrecisionList("[DEFAULT, HIGHEST]")
	require.NoError(t, err)
	require.Equal(t, []Precision{PrecisionDefault, PrecisionHighest}, list)
	require.Equal(t, "[DEFAULT, HIGHEST]", FormatPrecisionList(list))

	list, err = ParsePrecisionList("[]")
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = ParsePrecisionList("[DEFAULT HIGHEST]")
	require.Error(t, err)
	_, err = ParsePrecisionList("[LOW]")
	require.Error(t, err)
}
