package axes

import (
	"fmt"

	"github.com/on-the-ground/xmap_ive_go/shared/tree"
)

// registry holds the global set of distinct named axes in first-seen
// order (left to right, inputs before outputs) with the site where each
// name first appears. Extents are call-time data and live in the
// validator, not here.
type registry struct {
	order []string
	sites map[string]string
}

// buildRegistry scans the normalized input and output specs.
//
// Construction-time invariants:
//   - every named input axis must appear somewhere in the output spec,
//     otherwise the composed transform could never materialize it
//     (ErrUnboundOutputAxis);
//   - a named axis appearing only in outputs has no input to take its
//     extent from, so the configuration is unsatisfiable (ErrSpecFormat).
func buildRegistry(in []Arg, inSpecs []tree.Tree[Spec], outSpec tree.Tree[Spec]) (*registry, error) {
	reg := &registry{sites: make(map[string]string)}

	inputNames := make(map[string]struct{})
	for i, spec := range inSpecs {
		root := fmt.Sprintf("argument %q", in[i].Name)
		tree.Walk(spec, root, func(path string, s Spec) {
			array, ok := s.(ArraySpec)
			if !ok {
				return
			}
			for dim, label := range array.Labels {
				if !label.Named() {
					continue
				}
				name := label.AxisName()
				inputNames[name] = struct{}{}
				if _, seen := reg.sites[name]; !seen {
					reg.order = append(reg.order, name)
					reg.sites[name] = fmt.Sprintf("%s axis %d", path, dim)
				}
			}
		})
	}

	outputNames := make(map[string]string)
	tree.Walk(outSpec, "output", func(path string, s Spec) {
		array, ok := s.(ArraySpec)
		if !ok {
			return
		}
		for dim, label := range array.Labels {
			if !label.Named() {
				continue
			}
			name := label.AxisName()
			if _, seen := outputNames[name]; !seen {
				outputNames[name] = fmt.Sprintf("%s axis %d", path, dim)
			}
			if _, seen := reg.sites[name]; !seen {
				reg.order = append(reg.order, name)
				reg.sites[name] = fmt.Sprintf("%s axis %d", path, dim)
			}
		}
	})

	for _, name := range reg.order {
		if _, ok := inputNames[name]; !ok {
			return nil, fmt.Errorf("%w: axis %q (first bound at %s) appears in no input, so its extent is unknown",
				ErrSpecFormat, name, reg.sites[name])
		}
		if _, ok := outputNames[name]; !ok {
			return nil, fmt.Errorf("%w: axis %q (first bound at %s) appears in no output",
				ErrUnboundOutputAxis, name, reg.sites[name])
		}
	}

	return reg, nil
}
