package shapeinference

import (
	"fmt"

	"github.com/gomlx/raggeddot/types/shapes"
)

// Verification failures are returned as typed values so the host compiler can
// match on the kind (errors.As) and render the contextual values itself. The
// public entry points wrap them with a pkg/errors stack.

// InvalidGroupSizesRankError: the group_sizes operand is not rank-1.
type InvalidGroupSizesRankError struct {
	Got int
}

func (e *InvalidGroupSizesRankError) Error() string {
	return fmt.Sprintf("group_sizes operand must be rank-1, got rank %d", e.Got)
}

// InvalidRaggedDimCountError: lhs_ragged_dimensions doesn't hold exactly one
// axis.
type InvalidRaggedDimCountError struct {
	Got int
}

func (e *InvalidRaggedDimCountError) Error() string {
	return fmt.Sprintf("lhs_ragged_dimensions must hold exactly one axis, got %d", e.Got)
}

// AxisOutOfBoundsError: a declared axis index is not a valid axis of its
// operand.
type AxisOutOfBoundsError struct {
	Operand string
	Axis    int
	Rank    int
}

func (e *AxisOutOfBoundsError) Error() string {
	return fmt.Sprintf("axis %d is out of bounds for the %s operand of rank %d", e.Axis, e.Operand, e.Rank)
}

// DuplicateAxisRoleError: one axis was assigned to two mutually exclusive
// roles.
type DuplicateAxisRoleError struct {
	Axis         int
	RoleA, RoleB string
}

func (e *DuplicateAxisRoleError) Error() string {
	return fmt.Sprintf("axis %d is assigned to both %s and %s", e.Axis, e.RoleA, e.RoleB)
}

// UnexpectedGroupDimensionError: rhs_group_dimensions is non-empty while the
// ragged axis is batching or contracting.
type UnexpectedGroupDimensionError struct {
	Axes []int
}

func (e *UnexpectedGroupDimensionError) Error() string {
	return fmt.Sprintf("rhs_group_dimensions (%v) must be empty when the ragged axis is a batching or contracting axis", e.Axes)
}

// MissingGroupDimensionError: rhs_group_dimensions is empty while the ragged
// axis is a free lhs axis.
type MissingGroupDimensionError struct{}

func (e *MissingGroupDimensionError) Error() string {
	return "rhs_group_dimensions must hold exactly one axis when the ragged axis is a non-contracting, non-batching axis"
}

// GroupSizeMismatchError: the rhs group-axis extent doesn't match the group
// count declared by group_sizes.
type GroupSizeMismatchError struct {
	Expected, Got int
}

func (e *GroupSizeMismatchError) Error() string {
	return fmt.Sprintf("rhs group dimension has size %d, want the group count %d from group_sizes", e.Got, e.Expected)
}

// ResultShapeMismatchError: the operator's declared result shape is not
// compatible with the inferred one.
type ResultShapeMismatchError struct {
	Inferred, Declared shapes.Shape
}

func (e *ResultShapeMismatchError) Error() string {
	return fmt.Sprintf("declared result shape %s is not compatible with the inferred shape %s", e.Declared, e.Inferred)
}
