package axes

import "errors"

var (
	// ErrSpecFormat reports a malformed axis specification at
	// construction time.
	ErrSpecFormat = errors.New("malformed axis spec")

	// ErrUnboundOutputAxis reports a named input axis that never appears
	// in the declared output axes. Detected at construction time.
	ErrUnboundOutputAxis = errors.New("named input axis missing from output axes")

	// ErrArityMismatch reports a call whose argument count or container
	// structure does not match the declared specs.
	ErrArityMismatch = errors.New("argument structure mismatch")

	// ErrTypeMismatch reports a scalar argument whose type does not match
	// its declared kind, or a non-array value declared with array axes.
	ErrTypeMismatch = errors.New("value type mismatch")

	// ErrRankMismatch reports an array whose rank differs from the number
	// of declared axis labels.
	ErrRankMismatch = errors.New("array rank mismatch")

	// ErrAxisExtentMismatch reports a named axis whose extent differs
	// between two of its occurrences.
	ErrAxisExtentMismatch = errors.New("axis extent mismatch")
)
