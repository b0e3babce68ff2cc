// Package shapeinference validates the inputs of the generalized dot
// operations and calculates their output shapes.
//
// DotGeneral covers the plain batched matrix multiplication preconditions
// shared with RaggedDot; RaggedDot adds the ragged-axis and group-dimension
// rules on top. Both are pure functions over immutable shape and attribute
// values: the first violated precondition aborts the call with one error, so
// they are safe to run concurrently over independent operator instances.
package shapeinference

import (
	"slices"

	"github.com/gomlx/raggeddot/attrs"
	"github.com/gomlx/raggeddot/types"
	"github.com/gomlx/raggeddot/types/shapes"
	"github.com/pkg/errors"
)

// adjustAxisToRank returns a non-negative axis, adjusting negative numbers to
// the correct rank.
func adjustAxisToRank(rank, axis int) (int, error) {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return -1, errors.Errorf("axis %d is out of range [0, %d)", axis, rank)
	}
	return axis, nil
}

// adjustAxesToRank maps adjustAxisToRank over a copy of the axes -- the
// caller's slice (usually an attribute value) is left untouched.
func adjustAxesToRank(rank int, axes []int, axesName string, shape shapes.Shape) ([]int, error) {
	adjusted := slices.Clone(axes)
	for ii, axis := range axes {
		var err error
		adjusted[ii], err = adjustAxisToRank(rank, axis)
		if err != nil {
			return nil, errors.WithMessagef(err, "while adjusting %s (%v) for operand shaped %s", axesName, axes, shape)
		}
	}
	return adjusted, nil
}

// DotGeneral returns the shape resulting from a general dot operation -- a
// generalized "Einsum" where each operand axis is either batching (aligned,
// carried to the output), contracting (summed over) or crossed (free,
// concatenated into the output).
//
// The output dimensions are the batch dimensions, then the lhs free
// dimensions, then the rhs free dimensions, with the lhs element type.
// Negative axes are accepted and adjusted to the rank. The optional precision
// list is informational and must hold one entry per multiplicand when given.
func DotGeneral(lhs shapes.Shape, lhsContractingAxes, lhsBatchAxes []int,
	rhs shapes.Shape, rhsContractingAxes, rhsBatchAxes []int,
	precision []attrs.Precision) (output shapes.Shape, err error) {
	lhsContractingAxes, lhsBatchAxes, rhsContractingAxes, rhsBatchAxes, err = checkDotGeneral(
		lhs, lhsContractingAxes, lhsBatchAxes, rhs, rhsContractingAxes, rhsBatchAxes, precision)
	if err != nil {
		return shapes.Invalid(), err
	}

	batchDims := make([]int, len(lhsBatchAxes))
	for ii, axis := range lhsBatchAxes {
		batchDims[ii] = lhs.Dimensions[axis]
	}
	lhsCrossDims := freeDims(lhs, lhsContractingAxes, lhsBatchAxes)
	rhsCrossDims := freeDims(rhs, rhsContractingAxes, rhsBatchAxes)

	resultingDims := make([]int, 0, len(batchDims)+len(lhsCrossDims)+len(rhsCrossDims))
	resultingDims = append(resultingDims, batchDims...)
	resultingDims = append(resultingDims, lhsCrossDims...)
	resultingDims = append(resultingDims, rhsCrossDims...)
	return shapes.MakeDynamic(lhs.DType, resultingDims...), nil
}

// checkDotGeneral validates the batching/contracting preconditions shared by
// DotGeneral and RaggedDot, and returns the axes adjusted to non-negative
// form. Dimension comparisons are dynamic-aware.
func checkDotGeneral(lhs shapes.Shape, lhsContractingAxes, lhsBatchAxes []int,
	rhs shapes.Shape, rhsContractingAxes, rhsBatchAxes []int,
	precision []attrs.Precision) (lhsContracting, lhsBatch, rhsContracting, rhsBatch []int, err error) {
	dtype := lhs.DType
	if dtype != rhs.DType {
		err = errors.Errorf("DotGeneral lhs (left-hand-side) and rhs operands don't match data types: %s and %s", dtype, rhs.DType)
		return
	}
	if len(lhsContractingAxes) != len(rhsContractingAxes) {
		err = errors.Errorf("DotGeneral number of contracting axes for lhs (%d) doesn't match rhs (%d)",
			len(lhsContractingAxes), len(rhsContractingAxes))
		return
	}
	if len(lhsBatchAxes) != len(rhsBatchAxes) {
		err = errors.Errorf("DotGeneral number of batch axes for lhs (%d) doesn't match rhs (%d)",
			len(lhsBatchAxes), len(rhsBatchAxes))
		return
	}
	if len(precision) != 0 && len(precision) != 2 {
		err = errors.Errorf("DotGeneral precision list must hold one entry per multiplicand (2), got %d", len(precision))
		return
	}

	lhsRank := lhs.Rank()
	rhsRank := rhs.Rank()
	if lhsContracting, err = adjustAxesToRank(lhsRank, lhsContractingAxes, "lhsContractingAxes", lhs); err != nil {
		return
	}
	if lhsBatch, err = adjustAxesToRank(lhsRank, lhsBatchAxes, "lhsBatchAxes", lhs); err != nil {
		return
	}
	if rhsContracting, err = adjustAxesToRank(rhsRank, rhsContractingAxes, "rhsContractingAxes", rhs); err != nil {
		return
	}
	if rhsBatch, err = adjustAxesToRank(rhsRank, rhsBatchAxes, "rhsBatchAxes", rhs); err != nil {
		return
	}

	// No axis can take two roles within one operand.
	if err = checkAxesDisjoint(lhsBatch, lhsContracting, "lhs_batching_dimensions", "lhs_contracting_dimensions"); err != nil {
		return
	}
	if err = checkAxesDisjoint(rhsBatch, rhsContracting, "rhs_batching_dimensions", "rhs_contracting_dimensions"); err != nil {
		return
	}

	// Contracting and batch dimensions must match pairwise between lhs and rhs.
	for ii, lhsAxis := range lhsContracting {
		rhsAxis := rhsContracting[ii]
		if !shapes.DimCompatible(lhs.Dimensions[lhsAxis], rhs.Dimensions[rhsAxis]) {
			err = errors.Errorf("DotGeneral contracting dimensions don't match: lhs[%d]=%d != rhs[%d]=%d",
				lhsAxis, lhs.Dimensions[lhsAxis], rhsAxis, rhs.Dimensions[rhsAxis])
			return
		}
	}
	for ii, lhsAxis := range lhsBatch {
		rhsAxis := rhsBatch[ii]
		if !shapes.DimCompatible(lhs.Dimensions[lhsAxis], rhs.Dimensions[rhsAxis]) {
			err = errors.Errorf("DotGeneral batch dimensions don't match: lhs[%d]=%d != rhs[%d]=%d",
				lhsAxis, lhs.Dimensions[lhsAxis], rhsAxis, rhs.Dimensions[rhsAxis])
			return
		}
	}
	return
}

// checkAxesDisjoint fails with a DuplicateAxisRoleError if the two role lists
// share an axis, or if one list repeats an axis.
func checkAxesDisjoint(axesA, axesB []int, roleA, roleB string) error {
	seen := types.MakeSet[int](len(axesA))
	for _, axis := range axesA {
		if seen.Has(axis) {
			return errors.WithStack(&DuplicateAxisRoleError{Axis: axis, RoleA: roleA, RoleB: roleA})
		}
		seen.Insert(axis)
	}
	for _, axis := range axesB {
		if seen.Has(axis) {
			return errors.WithStack(&DuplicateAxisRoleError{Axis: axis, RoleA: roleA, RoleB: roleB})
		}
		seen.Insert(axis)
	}
	return nil
}

// freeDims returns, in axis order, the dimensions of the axes that appear in
// none of the given role lists.
func freeDims(shape shapes.Shape, excludedAxes ...[]int) []int {
	excluded := types.MakeSet[int]()
	for _, axes := range excludedAxes {
		excluded.Insert(axes...)
	}
	dims := make([]int, 0, shape.Rank()-len(excluded))
	for axis, dim := range shape.Dimensions {
		if !excluded.Has(axis) {
			dims = append(dims, dim)
		}
	}
	return dims
}
