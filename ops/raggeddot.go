// Package ops exposes the operator-level contract the surrounding compiler
// calls: verifying an already-typed operator instance and inferring the
// result type when building a new one.
package ops

import (
	"fmt"
	"strings"

	"github.com/gomlx/raggeddot/attrs"
	"github.com/gomlx/raggeddot/shapeinference"
	"github.com/gomlx/raggeddot/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// RaggedDotOp is one ragged dot operator instance: the three operand shapes,
// the dimension-numbers attribute, the optional precision list and -- once
// the instance is typed -- the declared result shape.
//
// It is a plain value; Verify never mutates it.
type RaggedDotOp struct {
	Lhs, Rhs, GroupSizes shapes.Shape
	DimensionNumbers     attrs.RaggedDotDimensionNumbers
	Precision            []attrs.Precision

	// Result is the declared result shape. Leave it invalid (zero) until the
	// instance is typed; Verify requires it.
	Result shapes.Shape
}

// Shape returns the declared result shape, implementing shapes.HasShape.
func (op *RaggedDotOp) Shape() shapes.Shape { return op.Result }

// Verify checks an already-typed instance: it runs the ragged-dot
// preconditions, infers the result shape and compares it against the declared
// one with dimension-wise compatibility (dynamic dimensions match anything).
//
// Constraint failures are propagated unchanged; an incompatible declared
// shape fails with ResultShapeMismatchError.
func (op *RaggedDotOp) Verify() error {
	inferred, err := shapeinference.RaggedDot(op.Lhs, op.Rhs, op.GroupSizes, op.DimensionNumbers, op.Precision)
	if err != nil {
		return err
	}
	if !op.Result.Ok() {
		return errors.Errorf("ragged_dot instance has no declared result shape to verify, use InferReturnType to type it first")
	}
	if !inferred.Compatible(op.Result) {
		return errors.WithStack(&shapeinference.ResultShapeMismatchError{Inferred: inferred, Declared: op.Result})
	}
	klog.V(2).Infof("ragged_dot verified: %s x %s with %s -> %s", op.Lhs, op.Rhs, op.DimensionNumbers, op.Result)
	return nil
}

// InferReturnType synthesizes the result shape (element type included) from
// the operand shapes and attributes, for building a new instance without an
// explicit result type.
func InferReturnType(lhs, rhs, groupSizes shapes.Shape, dims attrs.RaggedDotDimensionNumbers,
	precision []attrs.Precision) (shapes.Shape, error) {
	return shapeinference.RaggedDot(lhs, rhs, groupSizes, dims, precision)
}

// String renders the instance in the IR textual form, e.g.
//
//	ragged_dot(lhs, rhs, group_sizes) <ragged_dot_dims ...>, precision = [DEFAULT, DEFAULT] : ((Float32)[2 11 5], (Float32)[3 2 5 7], (Int32)[3]) -> (Float32)[2 11 7]
func (op *RaggedDotOp) String() string {
	var sb strings.Builder
	sb.WriteString("ragged_dot(lhs, rhs, group_sizes) ")
	sb.WriteString(op.DimensionNumbers.String())
	if len(op.Precision) > 0 {
		fmt.Fprintf(&sb, ", precision = %s", attrs.FormatPrecisionList(op.Precision))
	}
	fmt.Fprintf(&sb, " : (%s, %s, %s) -> %s", op.Lhs, op.Rhs, op.GroupSizes, op.Result)
	return sb.String()
}
