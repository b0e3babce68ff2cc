package shapeinference

import (
	"github.com/gomlx/raggeddot/attrs"
	"github.com/gomlx/raggeddot/types/shapes"
	"github.com/pkg/errors"
)

// RaggedDot returns the shape resulting from a ragged dot operation: a
// batched matrix multiplication where one lhs axis (the ragged axis) has its
// effective extent split per group, according to the rank-1 groupSizes
// operand.
//
// It first verifies the structural preconditions -- the first violated one
// aborts with a typed error (see errors.go) -- and then derives the output
// shape. The role of the ragged axis decides the mode:
//
//   - free (non-contracting, non-batching): rhs carries one group dimension
//     and the output is [batch..., lhs free..., rhs free...];
//   - contracting: the group count g is prepended, [g, batch..., lhs free...,
//     rhs free...];
//   - batching: grouping stays implicit, [batch..., lhs free..., rhs free...].
//
// The element type of the output is the lhs element type.
func RaggedDot(lhs, rhs, groupSizes shapes.Shape, dims attrs.RaggedDotDimensionNumbers,
	precision []attrs.Precision) (output shapes.Shape, err error) {
	mode, err := checkRaggedDot(lhs, rhs, groupSizes, dims, precision)
	if err != nil {
		return shapes.Invalid(), err
	}
	return raggedDotOutputShape(lhs, rhs, groupSizes, dims, mode), nil
}

// checkRaggedDot runs the ragged-dot preconditions in order and returns the
// derived mode. Each check is terminal: the first failure aborts.
func checkRaggedDot(lhs, rhs, groupSizes shapes.Shape, dims attrs.RaggedDotDimensionNumbers,
	precision []attrs.Precision) (mode attrs.RaggedMode, err error) {
	if groupSizes.Rank() != 1 {
		return mode, errors.WithStack(&InvalidGroupSizesRankError{Got: groupSizes.Rank()})
	}
	if len(dims.LhsRaggedDimensions) != 1 {
		return mode, errors.WithStack(&InvalidRaggedDimCountError{Got: len(dims.LhsRaggedDimensions)})
	}
	if err = checkAxesInRange("lhs", lhs.Rank(), dims.LhsRaggedDimensions); err != nil {
		return mode, err
	}
	if err = checkAxesInRange("rhs", rhs.Rank(), dims.RhsGroupDimensions); err != nil {
		return mode, err
	}
	// The attribute lists are used verbatim, both to derive the mode and to
	// index the operand dimensions, so negative spellings of batching and
	// contracting axes are out of bounds here.
	if err = checkAxesInRange("lhs", lhs.Rank(), dims.LhsBatchingDimensions, dims.LhsContractingDimensions); err != nil {
		return mode, err
	}
	if err = checkAxesInRange("rhs", rhs.Rank(), dims.RhsBatchingDimensions, dims.RhsContractingDimensions); err != nil {
		return mode, err
	}
	// A group axis cannot double as a batching or contracting axis.
	if err = checkAxesDisjoint(dims.RhsGroupDimensions, dims.RhsBatchingDimensions,
		"rhs_group_dimensions", "rhs_batching_dimensions"); err != nil {
		return mode, err
	}
	if err = checkAxesDisjoint(dims.RhsGroupDimensions, dims.RhsContractingDimensions,
		"rhs_group_dimensions", "rhs_contracting_dimensions"); err != nil {
		return mode, err
	}

	// The group dimension is only meaningful when the ragged axis is a free
	// lhs axis; in the other two modes the grouping is implicit.
	mode = dims.Mode()
	switch mode {
	case attrs.RaggedBatch, attrs.RaggedContracting:
		if len(dims.RhsGroupDimensions) != 0 {
			return mode, errors.WithStack(&UnexpectedGroupDimensionError{Axes: dims.RhsGroupDimensions})
		}
	case attrs.RaggedNonContracting:
		if len(dims.RhsGroupDimensions) != 1 {
			return mode, errors.WithStack(&MissingGroupDimensionError{})
		}
		numGroups := groupSizes.Dimensions[0]
		groupDim := rhs.Dimensions[dims.RhsGroupDimensions[0]]
		if !shapes.DimCompatible(groupDim, numGroups) {
			return mode, errors.WithStack(&GroupSizeMismatchError{Expected: numGroups, Got: groupDim})
		}
	}

	// The batching/contracting structure follows the plain dot rules; those
	// failures are surfaced unchanged.
	_, _, _, _, err = checkDotGeneral(lhs, dims.LhsContractingDimensions, dims.LhsBatchingDimensions,
		rhs, dims.RhsContractingDimensions, dims.RhsBatchingDimensions, precision)
	return mode, err
}

// checkAxesInRange verifies every listed axis names a valid axis of an
// operand of the given rank.
func checkAxesInRange(operand string, rank int, axesLists ...[]int) error {
	for _, axes := range axesLists {
		for _, axis := range axes {
			if axis < 0 || axis >= rank {
				return errors.WithStack(&AxisOutOfBoundsError{Operand: operand, Axis: axis, Rank: rank})
			}
		}
	}
	return nil
}

// raggedDotOutputShape assembles the output dimensions for an already
// verified configuration. The single sequence below handles all three modes:
// whether g is prepended and whether the group axis is excluded from the rhs
// free axes are both already fixed by the verified dimension numbers.
func raggedDotOutputShape(lhs, rhs, groupSizes shapes.Shape, dims attrs.RaggedDotDimensionNumbers,
	mode attrs.RaggedMode) shapes.Shape {
	numGroups := groupSizes.Dimensions[0]
	outputDims := make([]int, 0, lhs.Rank()+rhs.Rank())
	if mode == attrs.RaggedContracting {
		outputDims = append(outputDims, numGroups)
	}
	for _, axis := range dims.LhsBatchingDimensions {
		outputDims = append(outputDims, lhs.Dimensions[axis])
	}
	outputDims = append(outputDims, freeDims(lhs, dims.LhsBatchingDimensions, dims.LhsContractingDimensions)...)
	outputDims = append(outputDims, freeDims(rhs, dims.RhsBatchingDimensions, dims.RhsContractingDimensions, dims.RhsGroupDimensions)...)
	return shapes.MakeDynamic(lhs.DType, outputDims...)
}
