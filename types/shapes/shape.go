/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package shapes defines Shape and associated tools.
//
// Shape represents the shape (rank, dimensions and DType) of an operand or
// result of an operation in the IR. DType indicates the type of the unit
// element of a tensor, and is defined in github.com/gomlx/gopjrt/dtypes.
//
// Differently from concrete tensors, shapes in the IR may carry dynamic
// (unknown at compile time) dimensions, marked with DynamicDim. Most
// comparisons during verification are therefore done with Compatible /
// DimCompatible, where a dynamic dimension matches anything, rather than
// strict equality.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a Tensor.
//   - Axis: is the index of a dimension on a multidimensional Tensor. Sometimes used
//     interchangeably with Dimension, but here we try to refer to a dimension index as "axis"
//     (plural axes), and its size as its dimension.
//   - Dimension: the size of a multi-dimensions Tensor in one of its axes.
//   - DType: the data type of the unit element in a tensor.
//   - Scalar: is a shape where there are no axes (or dimensions), only a single value
//     of the associated DType.
package shapes

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/gopjrt/dtypes"
)

// DynamicDim marks a dimension whose size is unknown at compile time.
//
// It follows the convention used across the gomlx family of negative
// dimensions meaning dynamic.
const DynamicDim = int(-1)

// Shape represents the shape of an operand or of the expected result of an
// operation.
//
// Use Make (static dimensions only) or MakeDynamic to create a new shape.
type Shape struct {
	DType      DType
	Dimensions []int
}

// Make returns a Shape structure filled with the values given.
// All dimensions must be static and positive; see MakeDynamic for shapes
// with dynamic dimensions.
func Make(dtype DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension <= 0, use MakeDynamic for dynamic dimensions", s)
		}
	}
	return s
}

// MakeDynamic is like Make, but accepts DynamicDim as a dimension to mark
// axes whose size is not known at compile time.
func MakeDynamic(dtype DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim <= 0 && dim != DynamicDim {
			exceptions.Panicf("shapes.MakeDynamic(%s): dimensions must be positive or DynamicDim", s)
		}
	}
	return s
}

// Scalar returns a scalar Shape for the given type.
func Scalar[T Number]() Shape {
	return Shape{DType: FromGenericsType[T]()}
}

// Invalid returns an invalid shape.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: InvalidDType}
}

// Ok returns whether this is a valid Shape. A "zero" shape, that is just instantiating it with Shape{} will be invalid.
func (s Shape) Ok() bool { return s.DType != InvalidDType }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank==0).
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// IsDynamic returns whether any of the shape's dimensions is dynamic.
func (s Shape) IsDynamic() bool {
	return slices.Contains(s.Dimensions, DynamicDim)
}

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// Shape returns a shallow copy of itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// String implements stringer, pretty-prints the shape.
// Dynamic dimensions are printed as "?".
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	parts := make([]string, 0, s.Rank())
	for _, dim := range s.Dimensions {
		if dim == DynamicDim {
			parts = append(parts, "?")
		} else {
			parts = append(parts, strconv.Itoa(dim))
		}
	}
	return fmt.Sprintf("(%s)[%s]", s.DType, strings.Join(parts, " "))
}

// Equal compares two shapes for equality: dtype and dimensions are compared.
// A dynamic dimension is only equal to another dynamic dimension; see
// Compatible for the relaxed comparison used during verification.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType {
		return false
	}
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// DimCompatible returns whether two dimension sizes are compatible: either
// is dynamic, or both are equal.
func DimCompatible(dim1, dim2 int) bool {
	return dim1 == DynamicDim || dim2 == DynamicDim || dim1 == dim2
}

// Compatible returns whether the two shapes have the same dtype, the same
// rank and pairwise compatible dimensions -- where a dynamic dimension is
// compatible with anything.
func (s Shape) Compatible(s2 Shape) bool {
	if s.DType != s2.DType || s.Rank() != s2.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if !DimCompatible(dim, s2.Dimensions[axis]) {
			return false
		}
	}
	return true
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}
