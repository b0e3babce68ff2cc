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

package shapes

import (
	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)

	shape1 := Make(Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.False(t, shape1.IsDynamic())
	require.Equal(t, 3, shape1.Rank())
	require.Len(t, shape1.Dimensions, 3)
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.Panics(t, func() { Make(Float32, 4, 0) })
	require.Panics(t, func() { Make(Float32, 4, -1) })
}

func TestDim(t *testing.T) {
	shape := Make(Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 3, shape.Dim(-2))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestDynamic(t *testing.T) {
	shape := MakeDynamic(Float32, 4, DynamicDim, 2)
	require.True(t, shape.Ok())
	require.True(t, shape.IsDynamic())
	require.Equal(t, "(Float32)[4 ? 2]", shape.String())
	require.Panics(t, func() { MakeDynamic(Float32, 4, -2) })

	// Dynamic dimensions are not equal, but they are compatible.
	static := Make(Float32, 4, 3, 2)
	require.False(t, shape.Equal(static))
	require.True(t, shape.Compatible(static))
	require.True(t, static.Compatible(shape))
	require.False(t, static.Compatible(Make(Float32, 4, 5, 2)))
	require.False(t, shape.Compatible(Make(Float64, 4, 3, 2)))
	require.False(t, shape.Compatible(Make(Float32, 4, 3)))

	require.True(t, DimCompatible(3, 3))
	require.True(t, DimCompatible(DynamicDim, 7))
	require.True(t, DimCompatible(7, DynamicDim))
	require.False(t, DimCompatible(3, 7))
}

func TestCheckDims(t *testing.T) {
	shape := MakeDynamic(Float32, 4, DynamicDim, 2)
	require.NoError(t, shape.Check(Float32, 4, -1, 2))
	// A dynamic dimension satisfies any wanted value.
	require.NoError(t, shape.CheckDims(4, 7, 2))
	require.Error(t, shape.CheckDims(5, 7, 2))
	require.Error(t, shape.CheckDims(4, 7))
	require.Error(t, shape.Check(Float64, 4, 7, 2))
}

func TestAsserts(t *testing.T) {
	shape := Make(Float32, 4, 3, 2)
	require.NotPanics(t, func() { shape.AssertDims(4, UncheckedAxis, 2) })
	require.NotPanics(t, func() { shape.Assert(Float32, 4, 3, 2) })
	require.NotPanics(t, func() { shape.AssertRank(3) })
	require.Panics(t, func() { shape.AssertDims(4, 3) })
	require.Panics(t, func() { shape.Assert(Float64, 4, 3, 2) })
	require.Panics(t, func() { shape.AssertRank(1) })

	require.NoError(t, shape.CheckRank(3))
	require.Error(t, shape.CheckRank(2))
}
