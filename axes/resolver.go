package axes

import (
	"github.com/on-the-ground/xmap_ive_go/shared/tree"
	"github.com/on-the-ground/xmap_ive_go/vmap"
)

// liveLeaf tracks the axis labels of one array leaf that have not yet
// been consumed by an earlier single-axis transform. Dimension indices
// shift left every time an outer axis is peeled off, so positions are
// always reported relative to the remaining labels.
type liveLeaf struct {
	labels []Label
}

// resolver owns the live label lists of every input and output leaf for
// one composition sequence. take must be called once per named axis, in
// composition order; the bookkeeping is only valid for that order.
type resolver struct {
	in  []tree.Tree[*liveLeaf]
	out tree.Tree[*liveLeaf]
}

func newResolver(inSpecs []tree.Tree[Spec], outSpec tree.Tree[Spec]) *resolver {
	r := &resolver{
		in:  make([]tree.Tree[*liveLeaf], len(inSpecs)),
		out: liveTree(outSpec),
	}
	for i, spec := range inSpecs {
		r.in[i] = liveTree(spec)
	}
	return r
}

func liveTree(spec tree.Tree[Spec]) tree.Tree[*liveLeaf] {
	return tree.Map(spec, func(s Spec) *liveLeaf {
		array, ok := s.(ArraySpec)
		if !ok {
			// Scalar leaves carry no axes and never match.
			return &liveLeaf{}
		}
		labels := make([]Label, len(array.Labels))
		copy(labels, array.Labels)
		return &liveLeaf{labels: labels}
	})
}

// take resolves the current position of a named axis in every leaf and
// consumes it: leaves carrying the axis report its index among their
// remaining labels and drop the label, leaves without it report the
// not-batched marker.
func (r *resolver) take(name string) (in []tree.Tree[vmap.Axis], out tree.Tree[vmap.Axis]) {
	in = make([]tree.Tree[vmap.Axis], len(r.in))
	for i, live := range r.in {
		in[i] = takeTree(live, name)
	}
	return in, takeTree(r.out, name)
}

func takeTree(live tree.Tree[*liveLeaf], name string) tree.Tree[vmap.Axis] {
	return tree.Map(live, func(leaf *liveLeaf) vmap.Axis {
		return leaf.take(name)
	})
}

func (l *liveLeaf) take(name string) vmap.Axis {
	for i, label := range l.labels {
		if label.Named() && label.AxisName() == name {
			l.labels = append(l.labels[:i], l.labels[i+1:]...)
			return vmap.At(i)
		}
	}
	return vmap.None
}
