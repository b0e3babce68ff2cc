package attrs

import (
	"slices"
)

// RaggedDotDimensionNumbers classifies the axes of a ragged dot operation:
// which lhs/rhs axes are batching, which are contracting, which single lhs
// axis is ragged and which rhs axis (if any) indexes the per-group slices.
//
// It is an immutable value: compare with Equal, copy with Clone. The
// verifier in package shapeinference checks the structural invariants
// (exactly one ragged axis, at most one group axis, axes in range); this type
// only holds the lists.
type RaggedDotDimensionNumbers struct {
	LhsBatchingDimensions    []int
	RhsBatchingDimensions    []int
	LhsContractingDimensions []int
	RhsContractingDimensions []int

	// LhsRaggedDimensions must hold exactly one axis.
	LhsRaggedDimensions []int

	// RhsGroupDimensions holds zero or one axis; exactly one when the ragged
	// axis is a free (non-batching, non-contracting) lhs axis, none
	// otherwise.
	RhsGroupDimensions []int
}

// RaggedMode tells which role the single ragged lhs axis plays. It decides
// both the group-dimension arity rule and whether the group count becomes a
// leading output axis.
type RaggedMode int

const (
	// RaggedNonContracting: the ragged axis is a free lhs axis. The rhs
	// carries one group dimension and the output keeps the lhs layout.
	RaggedNonContracting RaggedMode = iota

	// RaggedContracting: the ragged axis is contracted away. The group count
	// becomes the leading output dimension.
	RaggedContracting

	// RaggedBatch: the ragged axis is a batching axis. Grouping stays
	// implicit in the batch dimension.
	RaggedBatch
)

// String implements fmt.Stringer.
func (m RaggedMode) String() string {
	switch m {
	case RaggedNonContracting:
		return "RaggedNonContracting"
	case RaggedContracting:
		return "RaggedContracting"
	case RaggedBatch:
		return "RaggedBatch"
	}
	return "RaggedModeInvalid"
}

// Mode derives the ragged mode from the role the ragged axis appears in.
// Only meaningful on values that pass verification; with no ragged axis it
// defaults to RaggedNonContracting.
func (d RaggedDotDimensionNumbers) Mode() RaggedMode {
	if len(d.LhsRaggedDimensions) == 0 {
		return RaggedNonContracting
	}
	raggedAxis := d.LhsRaggedDimensions[0]
	if slices.Contains(d.LhsContractingDimensions, raggedAxis) {
		return RaggedContracting
	}
	if slices.Contains(d.LhsBatchingDimensions, raggedAxis) {
		return RaggedBatch
	}
	return RaggedNonContracting
}

// Equal compares two dimension-numbers values structurally.
func (d RaggedDotDimensionNumbers) Equal(other RaggedDotDimensionNumbers) bool {
	return slices.Equal(d.LhsBatchingDimensions, other.LhsBatchingDimensions) &&
		slices.Equal(d.RhsBatchingDimensions, other.RhsBatchingDimensions) &&
		slices.Equal(d.LhsContractingDimensions, other.LhsContractingDimensions) &&
		slices.Equal(d.RhsContractingDimensions, other.RhsContractingDimensions) &&
		slices.Equal(d.LhsRaggedDimensions, other.LhsRaggedDimensions) &&
		slices.Equal(d.RhsGroupDimensions, other.RhsGroupDimensions)
}

// Clone returns a deep copy.
func (d RaggedDotDimensionNumbers) Clone() RaggedDotDimensionNumbers {
	return RaggedDotDimensionNumbers{
		LhsBatchingDimensions:    slices.Clone(d.LhsBatchingDimensions),
		RhsBatchingDimensions:    slices.Clone(d.RhsBatchingDimensions),
		LhsContractingDimensions: slices.Clone(d.LhsContractingDimensions),
		RhsContractingDimensions: slices.Clone(d.RhsContractingDimensions),
		LhsRaggedDimensions:      slices.Clone(d.LhsRaggedDimensions),
		RhsGroupDimensions:       slices.Clone(d.RhsGroupDimensions),
	}
}

// RaggedDotDimsMnemonic is the attribute mnemonic in the textual form.
const RaggedDotDimsMnemonic = "ragged_dot_dims"

// codec binds the six fields to the generic StructCodec, in canonical print
// order.
func (d *RaggedDotDimensionNumbers) codec() *StructCodec {
	axisListField := func(keyword string, target *[]int) Field {
		return Field{
			Keyword:   keyword,
			HasEquals: true,
			Parse: func(p *Parser) (err error) {
				*target, err = p.IntList()
				return
			},
			Print: func() (string, bool) {
				if len(*target) == 0 {
					return "", false
				}
				return FormatIntList(*target), true
			},
		}
	}
	return &StructCodec{
		Mnemonic: RaggedDotDimsMnemonic,
		Fields: []Field{
			axisListField("lhs_batching_dimensions", &d.LhsBatchingDimensions),
			axisListField("rhs_batching_dimensions", &d.RhsBatchingDimensions),
			axisListField("lhs_contracting_dimensions", &d.LhsContractingDimensions),
			axisListField("rhs_contracting_dimensions", &d.RhsContractingDimensions),
			axisListField("lhs_ragged_dimensions", &d.LhsRaggedDimensions),
			axisListField("rhs_group_dimensions", &d.RhsGroupDimensions),
		},
	}
}

// ParseRaggedDotDimensionNumbers decodes the textual attribute form, e.g.
//
//	<ragged_dot_dims lhs_batching_dimensions = [0], rhs_batching_dimensions = [1],
//	  lhs_contracting_dimensions = [2], rhs_contracting_dimensions = [2],
//	  lhs_ragged_dimensions = [1], rhs_group_dimensions = [0]>
//
// Fields may appear in any order; duplicates and unknown keywords are
// rejected.
func ParseRaggedDotDimensionNumbers(text string) (RaggedDotDimensionNumbers, error) {
	var d RaggedDotDimensionNumbers
	if err := d.codec().Parse(text); err != nil {
		return RaggedDotDimensionNumbers{}, err
	}
	return d, nil
}

// String prints the canonical textual form. Empty axis lists are omitted;
// re-parsing the result always reproduces the same value.
func (d RaggedDotDimensionNumbers) String() string {
	return d.codec().String()
}
