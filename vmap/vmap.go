package vmap

import (
	"fmt"

	"github.com/on-the-ground/xmap_ive_go/shared/helper"
	"github.com/on-the-ground/xmap_ive_go/shared/tensor"
	"github.com/on-the-ground/xmap_ive_go/shared/tree"
)

// Func is the calling convention shared by unbatched functions and their
// vectorized counterparts: positional arguments in, one (possibly nested)
// result out.
type Func = func(args ...any) any

// Axis tells a single-axis transform where the batch dimension sits in one
// leaf, or that the leaf is not batched and passes through unchanged.
type Axis struct {
	index   int
	batched bool
}

// At marks a leaf as batched along the given dimension index.
func At(index int) Axis {
	if index < 0 {
		panic(fmt.Sprintf("vmap: negative axis index %d", index))
	}
	return Axis{index: index, batched: true}
}

// None marks a leaf as not batched: the same value is seen by every
// element of the batch.
var None = Axis{}

// Batched reports whether the leaf carries the batch dimension.
func (a Axis) Batched() bool { return a.batched }

// Index returns the batch dimension index. Only meaningful when Batched.
func (a Axis) Index() int { return a.index }

func (a Axis) String() string {
	if !a.batched {
		return "none"
	}
	return fmt.Sprintf("%d", a.index)
}

// Lift wraps fn so that it maps over one extra batch dimension.
//
// in holds one axis tree per positional argument and out one axis tree for
// the result, each mirroring the corresponding value's container shape.
// Leaves marked with At carry the batch dimension at that index; leaves
// marked None pass through unchanged. The lifted function slices every
// batched input leaf, applies fn once per batch element, and stacks result
// leaves along their declared output index.
//
// Lift trusts its caller: arguments are assumed to have been validated
// against the axis trees, so structural violations panic.
func Lift(fn Func, in []tree.Tree[Axis], out tree.Tree[Axis]) Func {
	return func(args ...any) any {
		if len(args) != len(in) {
			panic(fmt.Sprintf("vmap: %d arguments for %d axis trees", len(args), len(in)))
		}

		extent := batchExtent(in, args)
		results := make([]any, extent)
		for k := 0; k < extent; k++ {
			sliced := make([]any, len(args))
			for i := range args {
				sliced[i] = sliceArg(in[i], args[i], k)
			}
			results[k] = fn(sliced...)
		}
		return stackResults(out, results)
	}
}

// batchExtent finds the batch dimension's extent from the batched input
// leaves and checks they agree.
func batchExtent(in []tree.Tree[Axis], args []any) int {
	extent := -1
	for i := range args {
		err := tree.ZipValue(in[i], args[i], fmt.Sprintf("argument %d", i),
			func(path string, axis Axis, val any) error {
				if !axis.Batched() {
					return nil
				}
				shaped, ok := helper.AsShaped(val)
				if !ok {
					panic(fmt.Sprintf("vmap: %s is batched but is a %T, not an array", path, val))
				}
				shape := shaped.Shape()
				if axis.Index() >= len(shape) {
					panic(fmt.Sprintf("vmap: %s batched at axis %d but has shape %v", path, axis.Index(), shape))
				}
				n := shape[axis.Index()]
				if extent == -1 {
					extent = n
				} else if extent != n {
					panic(fmt.Sprintf("vmap: %s has batch extent %d, expected %d", path, n, extent))
				}
				return nil
			})
		if err != nil {
			panic(err)
		}
	}
	if extent == -1 {
		panic("vmap: no input carries the batch axis")
	}
	return extent
}

// sliceArg extracts batch element k from every batched leaf of one argument.
func sliceArg(t tree.Tree[Axis], val any, k int) any {
	return tree.MapValue(t, val, func(axis Axis, leaf any) any {
		if !axis.Batched() {
			return leaf
		}
		return helper.MustTyped[*tensor.Dense](leaf).Slice(axis.Index(), k)
	})
}

// stackResults reassembles per-element results into batched outputs,
// stacking each batched leaf along its declared index.
func stackResults(t tree.Tree[Axis], results []any) any {
	switch n := t.(type) {
	case tree.Leaf[Axis]:
		if !n.Value.Batched() {
			return results[0]
		}
		return stackLeaves(n.Value.Index(), results)
	case tree.List[Axis]:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			parts := make([]any, len(results))
			for k, r := range results {
				parts[k] = r.([]any)[i]
			}
			out[i] = stackResults(item, parts)
		}
		return out
	case tree.Record[Axis]:
		out := make(map[string]any, len(n.Keys))
		for i, item := range n.Items {
			parts := make([]any, len(results))
			for k, r := range results {
				parts[k] = r.(map[string]any)[n.Keys[i]]
			}
			out[n.Keys[i]] = stackResults(item, parts)
		}
		return out
	default:
		panic(fmt.Sprintf("vmap: unknown node type %T", t))
	}
}

// stackLeaves joins one result leaf across the batch. Array leaves gain a
// dimension at the declared index; scalar leaves become a rank-1 array.
func stackLeaves(index int, results []any) any {
	if _, ok := results[0].(*tensor.Dense); ok {
		parts := make([]*tensor.Dense, len(results))
		for k, r := range results {
			parts[k] = helper.MustTyped[*tensor.Dense](r)
		}
		return tensor.Stack(index, parts)
	}

	if index != 0 {
		panic(fmt.Sprintf("vmap: scalar results can only stack at axis 0, got %d", index))
	}
	vals := make([]float64, len(results))
	for k, r := range results {
		vals[k] = scalarValue(r)
	}
	return tensor.FromSlice(vals, len(vals))
}

func scalarValue(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	default:
		panic(fmt.Sprintf("vmap: cannot stack scalar result of type %T", v))
	}
}
