package shapeinference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/raggeddot/attrs"
	"github.com/gomlx/raggeddot/types/shapes"
	"github.com/stretchr/testify/require"
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestDotGeneral(t *testing.T) {
	// Plain matrix multiplication: [m, k] x [k, n] -> [m, n].
	output := must1(DotGeneral(MS(F32, 11, 5), []int{1}, nil, MS(F32, 5, 7), []int{0}, nil, nil))
	require.NoError(t, output.Check(F32, 11, 7))

	// Batched: [b, m, k] x [b, k, n] -> [b, m, n].
	output = must1(DotGeneral(MS(F32, 2, 11, 5), []int{2}, []int{0}, MS(F32, 2, 5, 7), []int{1}, []int{0}, nil))
	require.NoError(t, output.Check(F32, 2, 11, 7))

	// Negative axes are adjusted to the rank.
	output = must1(DotGeneral(MS(F32, 2, 11, 5), []int{-1}, []int{0}, MS(F32, 2, 5, 7), []int{-2}, []int{0}, nil))
	require.NoError(t, output.Check(F32, 2, 11, 7))

	// Fully contracted: [k] x [k] -> scalar.
	output = must1(DotGeneral(MS(F32, 5), []int{0}, nil, MS(F32, 5), []int{0}, nil, nil))
	require.True(t, output.IsScalar())
	require.Equal(t, F32, output.DType)
}

func TestDotGeneralErrors(t *testing.T) {
	var err error

	// DTypes must match.
	_, err = DotGeneral(MS(F32, 11, 5), []int{1}, nil, MS(dtypes.Float64, 5, 7), []int{0}, nil, nil)
	require.Error(t, err)

	// Contracting axis list lengths must match.
	_, err = DotGeneral(MS(F32, 11, 5), []int{1}, nil, MS(F32, 5, 7), nil, nil, nil)
	require.Error(t, err)

	// Out-of-range axes.
	_, err = DotGeneral(MS(F32, 11, 5), []int{2}, nil, MS(F32, 5, 7), []int{0}, nil, nil)
	require.Error(t, err)
	_, err = DotGeneral(MS(F32, 11, 5), []int{-3}, nil, MS(F32, 5, 7), []int{0}, nil, nil)
	require.Error(t, err)

	// Contracting dimensions must match pairwise.
	_, err = DotGeneral(MS(F32, 11, 5), []int{1}, nil, MS(F32, 6, 7), []int{0}, nil, nil)
	require.Error(t, err)

	// Batch dimensions must match pairwise.
	_, err = DotGeneral(MS(F32, 2, 11, 5), []int{2}, []int{0}, MS(F32, 3, 5, 7), []int{1}, []int{0}, nil)
	require.Error(t, err)

	// One axis cannot take two roles.
	var duplicate *DuplicateAxisRoleError
	_, err = DotGeneral(MS(F32, 2, 11, 5), []int{0}, []int{0}, MS(F32, 2, 5, 7), []int{0}, []int{0}, nil)
	require.ErrorAs(t, err, &duplicate)

	// Precision list must have one entry per multiplicand.
	_, err = DotGeneral(MS(F32, 11, 5), []int{1}, nil, MS(F32, 5, 7), []int{0}, nil,
		[]attrs.Precision{attrs.PrecisionHigh, attrs.PrecisionHigh, attrs.PrecisionHigh})
	require.Error(t, err)
}

func TestDotGeneralDynamicDims(t *testing.T) {
	// Dynamic contracting and batch dims are compatible with anything.
	lhs := shapes.MakeDynamic(F32, shapes.DynamicDim, 11, 5)
	rhs := shapes.MakeDynamic(F32, 2, shapes.DynamicDim, 7)
	output := must1(DotGeneral(lhs, []int{2}, []int{0}, rhs, []int{1}, []int{0}, nil))
	require.Equal(t, []int{shapes.DynamicDim, 11, 7}, output.Dimensions)
}

func TestDotGeneralLeavesAxesUntouched(t *testing.T) {
	// Attribute values are immutable: negative axes are adjusted on a copy.
	contracting := []int{-1}
	_ = must1(DotGeneral(MS(F32, 11, 5), contracting, nil, MS(F32, 5, 7), []int{0}, nil, nil))
	require.Equal(t, []int{-1}, contracting)
}
