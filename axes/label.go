package axes

import (
	"fmt"
	"reflect"
	"strings"
)

type labelKind uint8

const (
	labelNamed labelKind = iota
	labelAnonymous
)

// Label is one entry of an array axis sequence: either a named axis,
// vectorized exactly once across all of its occurrences, or the anonymous
// placeholder Elided, a real dimension that stays in place on every call.
type Label struct {
	kind labelKind
	name string
}

// Name builds a named axis label.
func Name(name string) Label {
	return Label{kind: labelNamed, name: name}
}

// Elided is the anonymous axis placeholder, the analogue of writing "..."
// in an axis sequence.
var Elided = Label{kind: labelAnonymous}

// Named reports whether the label is a named axis.
func (l Label) Named() bool { return l.kind == labelNamed }

// AxisName returns the axis name. Empty for Elided.
func (l Label) AxisName() string { return l.name }

func (l Label) String() string {
	if l.kind == labelAnonymous {
		return "..."
	}
	return l.name
}

// ScalarKind classifies non-array values. Kinds are deliberately coarse:
// all integer widths batch together, as do all float widths, so axis
// specs stay easy to write.
type ScalarKind uint8

const (
	// Int matches every signed and unsigned integer type.
	Int ScalarKind = iota + 1
	// Float matches float32 and float64.
	Float
	// Bool matches bool.
	Bool
)

func (k ScalarKind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("ScalarKind(%d)", k)
	}
}

// Matches reports whether a runtime value belongs to the kind.
func (k ScalarKind) Matches(v any) bool {
	rk := reflect.ValueOf(v).Kind()
	switch k {
	case Int:
		return rk >= reflect.Int && rk <= reflect.Uintptr
	case Float:
		return rk == reflect.Float32 || rk == reflect.Float64
	case Bool:
		return rk == reflect.Bool
	default:
		return false
	}
}

// Spec describes the axis structure of one argument or result leaf.
// It is a closed variant: ArraySpec or ScalarSpec.
type Spec interface {
	spec()
	String() string
}

// ArraySpec declares an array-valued leaf with one label per dimension.
type ArraySpec struct {
	Labels []Label
}

// ScalarSpec declares a non-array leaf of a given kind, checked but never
// batched.
type ScalarSpec struct {
	Kind ScalarKind
}

func (ArraySpec) spec()  {}
func (ScalarSpec) spec() {}

func (s ArraySpec) String() string {
	parts := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		parts[i] = l.String()
	}
	return "Array[" + strings.Join(parts, ", ") + "]"
}

func (s ScalarSpec) String() string { return s.Kind.String() }
