// Package axes provides named-axis vectorization for Go functions.
//
// Given a function over unbatched values and a per-argument description
// of which axes are named, anonymous, or scalar, Vectorize produces a
// function that batches every named axis exactly once — regardless of the
// order of arguments or of where the axis sits in each of them.
//
// # Axis specs
//
// Each parameter declares its axes with a spec literal:
//   - []any{"b", axes.Elided} — an array whose first dimension is the
//     named axis "b" and whose second is a real, unbatched dimension;
//   - axes.Int / axes.Float / axes.Bool — a scalar value, checked but
//     never batched;
//   - nested []any or map[string]any — nested containers of sub-specs.
//
// A named axis may appear in any position of any number of arguments; it
// is discovered once, its extent must agree everywhere it appears, and it
// must also appear in the output spec.
//
// # Composition
//
// Vectorize resolves, for every named axis, the dimension index it
// occupies in each argument once all previously processed axes have been
// peeled off, then folds one single-axis vectorizing transform per axis
// around the wrapped function. The composition order is deterministic
// (first seen, left to right, inputs before outputs) and is an
// implementation strategy, not a contract: any permutation yields the
// same results.
//
// Example:
//
//	v, err := axes.Vectorize(dot, []axes.Arg{
//	        {Name: "x", Axes: []any{"b", axes.Elided}},
//	        {Name: "y", Axes: []any{axes.Elided, "b"}},
//	}, []any{"b"})
//	out, err := v.Call(x, y) // one dot product per "b" element
//
// # Errors
//
// Construction fails eagerly with ErrSpecFormat or ErrUnboundOutputAxis.
// Every call re-validates its arguments before any computation and fails
// with ErrArityMismatch, ErrTypeMismatch, ErrRankMismatch, or
// ErrAxisExtentMismatch, each naming the argument or axis at fault with
// the expected and observed values. Failures from the underlying
// vectorizing substrate propagate unchanged.
package axes
