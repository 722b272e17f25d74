package vmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/xmap_ive_go/shared/tensor"
	"github.com/on-the-ground/xmap_ive_go/shared/tree"
	"github.com/on-the-ground/xmap_ive_go/vmap"
)

func leafAxis(a vmap.Axis) tree.Tree[vmap.Axis] { return tree.NewLeaf(a) }

func TestLiftMapsLeadingAxis(t *testing.T) {
	double := func(args ...any) any {
		return tensor.Scale(args[0].(*tensor.Dense), 2)
	}

	lifted := vmap.Lift(double,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0))},
		leafAxis(vmap.At(0)),
	)

	in := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	out := lifted(in).(*tensor.Dense)

	assert.True(t, tensor.Equal(tensor.FromSlice([]float64{2, 4, 6, 8, 10, 12}, 3, 2), out))
}

func TestLiftSlicesDifferentAxesPerArgument(t *testing.T) {
	dot := func(args ...any) any {
		return tensor.Dot(args[0].(*tensor.Dense), args[1].(*tensor.Dense))
	}

	lifted := vmap.Lift(dot,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0)), leafAxis(vmap.At(1))},
		leafAxis(vmap.At(0)),
	)

	// x batched on axis 0, y batched on axis 1.
	x := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	y := tensor.FromSlice([]float64{10, 100, 20, 200}, 2, 2)
	out := lifted(x, y).(*tensor.Dense)

	// out[i] = dot(x[i, :], y[:, i])
	want := tensor.FromSlice([]float64{
		1*10 + 2*20,
		3*100 + 4*200,
	}, 2)
	assert.True(t, tensor.Equal(want, out))
}

func TestLiftBroadcastsUnbatchedArgument(t *testing.T) {
	add := func(args ...any) any {
		return tensor.Add(args[0].(*tensor.Dense), args[1].(*tensor.Dense))
	}

	lifted := vmap.Lift(add,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0)), leafAxis(vmap.None)},
		leafAxis(vmap.At(0)),
	)

	x := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	bias := tensor.FromSlice([]float64{10, 20}, 2)
	out := lifted(x, bias).(*tensor.Dense)

	want := tensor.FromSlice([]float64{11, 22, 13, 24}, 2, 2)
	assert.True(t, tensor.Equal(want, out))
}

func TestLiftStacksScalarResults(t *testing.T) {
	sum := func(args ...any) any {
		return tensor.Sum(args[0].(*tensor.Dense))
	}

	lifted := vmap.Lift(sum,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0))},
		leafAxis(vmap.At(0)),
	)

	in := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	out := lifted(in).(*tensor.Dense)

	assert.True(t, tensor.Equal(tensor.FromSlice([]float64{3, 7, 11}, 3), out))
}

func TestLiftStacksAtOutputIndex(t *testing.T) {
	identity := func(args ...any) any { return args[0] }

	lifted := vmap.Lift(identity,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0))},
		leafAxis(vmap.At(1)),
	)

	in := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	out := lifted(in).(*tensor.Dense)

	// Batch axis moved from position 0 to position 1: a transpose.
	require.Equal(t, []int{2, 3}, out.Shape())
	assert.Equal(t, in.At(2, 1), out.At(1, 2))
}

func TestLiftNestedContainers(t *testing.T) {
	swap := func(args ...any) any {
		pair := args[0].([]any)
		return []any{pair[1], pair[0]}
	}

	inAxes := tree.NewList[vmap.Axis](leafAxis(vmap.At(0)), leafAxis(vmap.At(0)))
	outAxes := tree.NewList[vmap.Axis](leafAxis(vmap.At(0)), leafAxis(vmap.At(0)))
	lifted := vmap.Lift(swap, []tree.Tree[vmap.Axis]{inAxes}, outAxes)

	a := tensor.FromSlice([]float64{1, 2}, 2)
	b := tensor.FromSlice([]float64{3, 4}, 2)
	out := lifted([]any{a, b}).([]any)

	assert.True(t, tensor.Equal(b, out[0].(*tensor.Dense)))
	assert.True(t, tensor.Equal(a, out[1].(*tensor.Dense)))
}

func TestLiftPassesScalarsThrough(t *testing.T) {
	scale := func(args ...any) any {
		return tensor.Scale(args[0].(*tensor.Dense), args[1].(float64))
	}

	lifted := vmap.Lift(scale,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0)), leafAxis(vmap.None)},
		leafAxis(vmap.At(0)),
	)

	x := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	out := lifted(x, 10.0).(*tensor.Dense)

	assert.True(t, tensor.Equal(tensor.FromSlice([]float64{10, 20, 30, 40}, 2, 2), out))
}

func TestLiftExtentDisagreementPanics(t *testing.T) {
	addBoth := func(args ...any) any { return args[0] }

	lifted := vmap.Lift(addBoth,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.At(0)), leafAxis(vmap.At(0))},
		leafAxis(vmap.At(0)),
	)

	assert.Panics(t, func() {
		lifted(tensor.New(3), tensor.New(4))
	})
}

func TestLiftNoBatchedInputPanics(t *testing.T) {
	identity := func(args ...any) any { return args[0] }

	lifted := vmap.Lift(identity,
		[]tree.Tree[vmap.Axis]{leafAxis(vmap.None)},
		leafAxis(vmap.At(0)),
	)

	assert.Panics(t, func() { lifted(tensor.New(2)) })
}
