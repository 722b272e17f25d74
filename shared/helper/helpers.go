package helper

import (
	"fmt"
)

// Shaped is anything exposing an array shape. The vectorization core only
// needs shape introspection from the array library; everything else about
// arrays stays behind the vmap substrate.
type Shaped interface {
	Shape() []int
}

// AsShaped asserts that a leaf value is an array.
func AsShaped(v any) (Shaped, bool) {
	s, ok := v.(Shaped)
	return s, ok
}

// AsTyped safely asserts an any value to the expected type T.
// Returns an error naming the actual type if the assertion fails.
func AsTyped[T any](v any) (T, error) {
	var zero T
	val, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", v)
	}
	return val, nil
}

// MustTyped is the panic-on-failure variant of AsTyped.
// Use when the value's type is guaranteed by prior validation.
func MustTyped[T any](v any) T {
	val, err := AsTyped[T](v)
	if err != nil {
		panic(err)
	}
	return val
}
