package axes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/on-the-ground/xmap_ive_go/shared/helper"
	"github.com/on-the-ground/xmap_ive_go/shared/tree"
)

// extentSite remembers where a named axis's extent was first observed
// during one call, for diagnostics on conflicting occurrences.
type extentSite struct {
	extent int
	site   string
}

// validateArgs walks the call arguments against the declared specs before
// any transform runs. Checks run in a fixed order: container structure,
// scalar kinds, array ranks, then named-axis extent consistency. It
// returns the observed extent of every named axis for output validation.
func validateArgs(in []Arg, inSpecs []tree.Tree[Spec], args []any) (map[string]extentSite, error) {
	if len(args) != len(in) {
		return nil, arityError(in, len(args))
	}

	for i, spec := range inSpecs {
		root := fmt.Sprintf("argument %q", in[i].Name)
		if err := validateValue(spec, args[i], root); err != nil {
			return nil, err
		}
	}

	extents := make(map[string]extentSite)
	for i, spec := range inSpecs {
		root := fmt.Sprintf("argument %q", in[i].Name)
		if err := recordExtents(spec, args[i], root, extents); err != nil {
			return nil, err
		}
	}
	return extents, nil
}

func arityError(in []Arg, got int) error {
	names := make([]string, len(in))
	for i, arg := range in {
		names[i] = arg.Name
	}
	if got < len(in) {
		missing := names[got:]
		return fmt.Errorf("%w: %d arguments for parameters (%s), missing %s",
			ErrArityMismatch, got, strings.Join(names, ", "), strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %d arguments for parameters (%s), %d extra",
		ErrArityMismatch, got, strings.Join(names, ", "), got-len(in))
}

// validateValue checks one value tree against one spec tree: structure,
// scalar kinds, and array ranks.
func validateValue(spec tree.Tree[Spec], value any, root string) error {
	err := tree.ZipValue(spec, value, root, func(path string, s Spec, val any) error {
		switch leaf := s.(type) {
		case ScalarSpec:
			if !leaf.Kind.Matches(val) {
				return fmt.Errorf("%w: %s expected %s, got %T (%v)",
					ErrTypeMismatch, path, leaf.Kind, val, val)
			}
			return nil
		case ArraySpec:
			shaped, ok := helper.AsShaped(val)
			if !ok {
				// Plain numbers stand in for rank-0 arrays.
				if len(leaf.Labels) == 0 && (Float.Matches(val) || Int.Matches(val)) {
					return nil
				}
				return fmt.Errorf("%w: %s expected an array with axes %s, got %T",
					ErrTypeMismatch, path, leaf, val)
			}
			if shape := shaped.Shape(); len(shape) != len(leaf.Labels) {
				return fmt.Errorf("%w: %s declared axes %s (rank %d) but has shape %v (rank %d)",
					ErrRankMismatch, path, leaf, len(leaf.Labels), shape, len(shape))
			}
			return nil
		default:
			return fmt.Errorf("%w: %s has unknown spec variant %T", ErrSpecFormat, path, s)
		}
	})
	if errors.Is(err, tree.ErrStructureMismatch) {
		return fmt.Errorf("%w: %v", ErrArityMismatch, err)
	}
	return err
}

// recordExtents accumulates the extent of every named axis, failing on
// the first occurrence that disagrees with an earlier one.
func recordExtents(spec tree.Tree[Spec], value any, root string, extents map[string]extentSite) error {
	return tree.ZipValue(spec, value, root, func(path string, s Spec, val any) error {
		array, ok := s.(ArraySpec)
		if !ok {
			return nil
		}
		shaped, ok := helper.AsShaped(val)
		if !ok {
			return nil
		}
		shape := shaped.Shape()
		for dim, label := range array.Labels {
			if !label.Named() {
				continue
			}
			name := label.AxisName()
			site := fmt.Sprintf("%s axis %d", path, dim)
			if prev, seen := extents[name]; seen {
				if prev.extent != shape[dim] {
					return fmt.Errorf("%w: axis %q has extent %d at %s but extent %d at %s",
						ErrAxisExtentMismatch, name, prev.extent, prev.site, shape[dim], site)
				}
				continue
			}
			extents[name] = extentSite{extent: shape[dim], site: site}
		}
		return nil
	})
}

// validateResult checks the returned value against the output spec after
// the composed call: structure, ranks, and named extents against the
// extents observed on the inputs. Named axes repeated across output
// leaves must agree with each other the same way input occurrences do.
func validateResult(outSpec tree.Tree[Spec], result any, extents map[string]extentSite) error {
	if err := validateValue(outSpec, result, "output"); err != nil {
		return err
	}
	return recordExtents(outSpec, result, "output", extents)
}
