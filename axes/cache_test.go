package axes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/xmap_ive_go/axes"
	"github.com/on-the-ground/xmap_ive_go/shared/tensor"
)

func TestCacheReusesComposedFunction(t *testing.T) {
	cache := axes.NewCache(8)
	in := []axes.Arg{{Name: "x", Axes: []any{"b"}}}

	first, err := cache.Vectorize(dot, in, []any{"b"})
	require.NoError(t, err)
	second, err := cache.Vectorize(dot, in, []any{"b"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, first.ID(), second.ID())
}

func TestCacheDistinguishesSpecs(t *testing.T) {
	cache := axes.NewCache(8)

	a, err := cache.Vectorize(dot, []axes.Arg{{Name: "x", Axes: []any{"b"}}}, []any{"b"})
	require.NoError(t, err)
	b, err := cache.Vectorize(dot, []axes.Arg{{Name: "x", Axes: []any{"b", axes.Elided}}}, []any{"b"})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestCacheDistinguishesFunctions(t *testing.T) {
	cache := axes.NewCache(8)
	in := []axes.Arg{{Name: "x", Axes: []any{"b"}}}

	identity := func(args ...any) any { return args[0] }
	other := func(args ...any) any { return args[0] }

	a, err := cache.Vectorize(identity, in, []any{"b"})
	require.NoError(t, err)
	b, err := cache.Vectorize(other, in, []any{"b"})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestCachePropagatesConstructionErrors(t *testing.T) {
	cache := axes.NewCache(8)

	_, err := cache.Vectorize(dot, []axes.Arg{{Name: "x", Axes: []any{"b"}}}, []any{})
	assert.ErrorIs(t, err, axes.ErrUnboundOutputAxis)
}

func TestCachedFunctionStillCallable(t *testing.T) {
	cache := axes.NewCache(8)
	in := []axes.Arg{{Name: "x", Axes: []any{"b"}}}

	double := func(args ...any) any {
		return tensor.Scale(args[0].(*tensor.Dense), 2).Item()
	}
	v, err := cache.Vectorize(double, in, []any{"b"})
	require.NoError(t, err)

	out, err := v.Call(tensor.FromSlice([]float64{1, 2, 3}, 3))
	require.NoError(t, err)
	assert.True(t, tensor.Equal(tensor.FromSlice([]float64{2, 4, 6}, 3), out.(*tensor.Dense)))
}
