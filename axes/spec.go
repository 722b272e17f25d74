package axes

import (
	"fmt"
	"strings"

	"github.com/on-the-ground/xmap_ive_go/shared/tree"
)

// Arg pairs a parameter name with its user-declared axis spec.
//
// A spec literal is one of:
//   - a []any of labels (strings for named axes, Elided for anonymous
//     ones), declaring a single array leaf with one label per dimension;
//   - a ScalarKind, declaring a non-array leaf;
//   - a []any of sub-specs, declaring a nested list;
//   - a map[string]any of sub-specs, declaring a nested record.
type Arg struct {
	Name string
	Axes any
}

// normalizeSpec parses one user spec literal into its internal tree form.
// Pure: no side effects beyond the returned tree or error.
func normalizeSpec(v any) (tree.Tree[Spec], error) {
	switch spec := v.(type) {
	case ScalarKind:
		return tree.NewLeaf[Spec](ScalarSpec{Kind: spec}), nil
	case []any:
		return normalizeSlice(spec)
	case map[string]any:
		fields := make(map[string]tree.Tree[Spec], len(spec))
		for k, sub := range spec {
			normalized, err := normalizeSpec(sub)
			if err != nil {
				return nil, fmt.Errorf("%w (field %q)", err, k)
			}
			fields[k] = normalized
		}
		return tree.NewRecord(fields), nil
	default:
		return nil, fmt.Errorf("%w: %T is not a scalar kind, label sequence, or container", ErrSpecFormat, v)
	}
}

// normalizeSlice decides whether a []any is a label sequence (one array
// leaf) or a list of sub-specs. Mixing the two is a format error.
func normalizeSlice(entries []any) (tree.Tree[Spec], error) {
	labels := 0
	for _, e := range entries {
		if isLabel(e) {
			labels++
		}
	}

	switch {
	case labels == len(entries):
		return normalizeLabels(entries)
	case labels == 0:
		items := make([]tree.Tree[Spec], len(entries))
		for i, e := range entries {
			normalized, err := normalizeSpec(e)
			if err != nil {
				return nil, fmt.Errorf("%w (element %d)", err, i)
			}
			items[i] = normalized
		}
		return tree.NewList(items...), nil
	default:
		return nil, fmt.Errorf("%w: sequence mixes axis labels with sub-specs", ErrSpecFormat)
	}
}

// normalizeLabels builds an ArraySpec leaf, rejecting empty names and a
// name repeated within the same leaf (a named axis is batched once, so a
// single value cannot carry it on two dimensions).
func normalizeLabels(entries []any) (tree.Tree[Spec], error) {
	seen := make(map[string]struct{}, len(entries))
	labels := make([]Label, len(entries))
	for i, e := range entries {
		var label Label
		switch l := e.(type) {
		case string:
			if l == "" {
				return nil, fmt.Errorf("%w: empty axis name at position %d", ErrSpecFormat, i)
			}
			label = Name(l)
		case Label:
			label = l
		}
		if label.Named() {
			if _, dup := seen[label.AxisName()]; dup {
				return nil, fmt.Errorf("%w: axis %q repeated within one value's axes", ErrSpecFormat, label.AxisName())
			}
			seen[label.AxisName()] = struct{}{}
		}
		labels[i] = label
	}
	return tree.NewLeaf[Spec](ArraySpec{Labels: labels}), nil
}

func isLabel(v any) bool {
	switch v.(type) {
	case string, Label:
		return true
	default:
		return false
	}
}

// normalizeIn parses every argument spec, rejecting duplicate parameter
// names.
func normalizeIn(in []Arg) ([]tree.Tree[Spec], error) {
	seen := make(map[string]struct{}, len(in))
	specs := make([]tree.Tree[Spec], len(in))
	for i, arg := range in {
		if arg.Name == "" {
			return nil, fmt.Errorf("%w: argument %d has no name", ErrSpecFormat, i)
		}
		if _, dup := seen[arg.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate argument name %q", ErrSpecFormat, arg.Name)
		}
		seen[arg.Name] = struct{}{}

		normalized, err := normalizeSpec(arg.Axes)
		if err != nil {
			return nil, fmt.Errorf("%w (argument %q)", err, arg.Name)
		}
		specs[i] = normalized
	}
	return specs, nil
}

// renderSpecTree prints a spec tree the way users wrote it, for error
// messages and fingerprints.
func renderSpecTree(t tree.Tree[Spec]) string {
	switch n := t.(type) {
	case tree.Leaf[Spec]:
		return n.Value.String()
	case tree.List[Spec]:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = renderSpecTree(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case tree.Record[Spec]:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = fmt.Sprintf("%s: %s", n.Keys[i], renderSpecTree(item))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		panic(fmt.Sprintf("axes: unknown node type %T", t))
	}
}
