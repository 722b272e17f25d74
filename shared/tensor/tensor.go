package tensor

import (
	"fmt"
)

// Dense is a multi-dimensional array of float64 values stored in
// row-major (C-contiguous) order.
//
// Dense is immutable by convention once published: the vectorization core
// and the vmap substrate never mutate an array they did not allocate.
// Shape errors are programmer bugs and panic rather than return errors.
type Dense struct {
	data  []float64
	shape []int
}

// New creates a dense array of the given shape, initialized to zero.
// A zero-length shape is a rank-0 (scalar) array.
func New(shape ...int) *Dense {
	size := 1
	for i, dim := range shape {
		if dim <= 0 {
			panic(fmt.Sprintf("tensor: shape[%d] must be positive, got %d", i, dim))
		}
		size *= dim
	}

	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)

	return &Dense{
		data:  make([]float64, size),
		shape: shapeCopy,
	}
}

// FromSlice creates a dense array from row-major data. The data length
// must equal the product of the shape.
func FromSlice(data []float64, shape ...int) *Dense {
	t := New(shape...)
	if len(data) != len(t.data) {
		panic(fmt.Sprintf("tensor: data length %d does not fit shape %v", len(data), shape))
	}
	copy(t.data, data)
	return t
}

// Scalar creates a rank-0 array holding a single value.
func Scalar(v float64) *Dense {
	t := New()
	t.data[0] = v
	return t
}

// Shape returns a copy of the array's shape.
func (t *Dense) Shape() []int {
	shape := make([]int, len(t.shape))
	copy(shape, t.shape)
	return shape
}

// Rank returns the number of dimensions.
func (t *Dense) Rank() int { return len(t.shape) }

// Size returns the total number of elements.
func (t *Dense) Size() int { return len(t.data) }

// At returns the element at the given indices.
// Panics if indices are invalid.
func (t *Dense) At(indices ...int) float64 {
	return t.data[t.flatIndex(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are invalid.
func (t *Dense) Set(value float64, indices ...int) {
	t.data[t.flatIndex(indices)] = value
}

// Item returns the value of a rank-0 or single-element array.
func (t *Dense) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("tensor: Item on array of size %d", len(t.data)))
	}
	return t.data[0]
}

func (t *Dense) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(t.shape), len(indices)))
	}

	idx := 0
	stride := 1
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < 0 || indices[i] >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index[%d]=%d out of bounds [0,%d)", i, indices[i], t.shape[i]))
		}
		idx += indices[i] * stride
		stride *= t.shape[i]
	}
	return idx
}

// multiIndex converts a flat row-major offset to per-dimension indices
// for the given shape.
func multiIndex(flat int, shape []int) []int {
	indices := make([]int, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		indices[i] = flat % shape[i]
		flat /= shape[i]
	}
	return indices
}

// Clone creates a deep copy of the array.
func (t *Dense) Clone() *Dense {
	clone := New(t.shape...)
	copy(clone.data, t.data)
	return clone
}

// Slice extracts the sub-array at position i along the given axis,
// dropping that axis. The result owns its data.
func (t *Dense) Slice(axis, i int) *Dense {
	if axis < 0 || axis >= len(t.shape) {
		panic(fmt.Sprintf("tensor: slice axis %d out of range for shape %v", axis, t.shape))
	}
	if i < 0 || i >= t.shape[axis] {
		panic(fmt.Sprintf("tensor: slice index %d out of bounds [0,%d)", i, t.shape[axis]))
	}

	outShape := make([]int, 0, len(t.shape)-1)
	outShape = append(outShape, t.shape[:axis]...)
	outShape = append(outShape, t.shape[axis+1:]...)

	out := New(outShape...)
	src := make([]int, len(t.shape))
	for flat := range out.data {
		indices := multiIndex(flat, outShape)
		copy(src[:axis], indices[:axis])
		src[axis] = i
		copy(src[axis+1:], indices[axis:])
		out.data[flat] = t.data[t.flatIndex(src)]
	}
	return out
}

// Stack joins arrays of identical shape along a new axis inserted at the
// given position. The inverse of slicing every index of that axis.
func Stack(axis int, parts []*Dense) *Dense {
	if len(parts) == 0 {
		panic("tensor: stack of zero arrays")
	}
	base := parts[0].shape
	for _, p := range parts[1:] {
		if !shapeEqual(base, p.shape) {
			panic(fmt.Sprintf("tensor: cannot stack shapes %v and %v", base, p.shape))
		}
	}
	if axis < 0 || axis > len(base) {
		panic(fmt.Sprintf("tensor: stack axis %d out of range for rank %d", axis, len(base)))
	}

	outShape := make([]int, 0, len(base)+1)
	outShape = append(outShape, base[:axis]...)
	outShape = append(outShape, len(parts))
	outShape = append(outShape, base[axis:]...)

	out := New(outShape...)
	src := make([]int, len(base))
	for flat := range out.data {
		indices := multiIndex(flat, outShape)
		copy(src[:axis], indices[:axis])
		copy(src[axis:], indices[axis+1:])
		out.data[flat] = parts[indices[axis]].data[parts[indices[axis]].flatIndex(src)]
	}
	return out
}

// Add performs element-wise addition. Panics if shapes differ.
func Add(a, b *Dense) *Dense {
	if !shapeEqual(a.shape, b.shape) {
		panic(fmt.Sprintf("tensor: cannot add shapes %v and %v", a.shape, b.shape))
	}
	out := New(a.shape...)
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out
}

// Scale multiplies every element by a scalar.
func Scale(a *Dense, scalar float64) *Dense {
	out := New(a.shape...)
	for i := range out.data {
		out.data[i] = a.data[i] * scalar
	}
	return out
}

// Dot computes the inner product of two rank-1 arrays of equal length.
func Dot(a, b *Dense) float64 {
	if a.Rank() != 1 || b.Rank() != 1 || a.shape[0] != b.shape[0] {
		panic(fmt.Sprintf("tensor: cannot dot shapes %v and %v", a.shape, b.shape))
	}
	sum := 0.0
	for i := range a.data {
		sum += a.data[i] * b.data[i]
	}
	return sum
}

// Sum reduces all elements to their total.
func Sum(a *Dense) float64 {
	sum := 0.0
	for _, v := range a.data {
		sum += v
	}
	return sum
}

// Equal reports whether two arrays have the same shape and contents.
func Equal(a, b *Dense) bool {
	if !shapeEqual(a.shape, b.shape) {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// String returns a short debugging representation.
func (t *Dense) String() string {
	return fmt.Sprintf("Dense(shape=%v, size=%d)", t.shape, len(t.data))
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
