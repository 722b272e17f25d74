package axes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"

	"github.com/on-the-ground/xmap_ive_go/shared/tree"
	"github.com/on-the-ground/xmap_ive_go/vmap"
)

// Func is the calling convention of both the wrapped function and its
// vectorized counterpart.
type Func = vmap.Func

// SingleAxisTransform lifts a function over one batch dimension, given
// the per-argument and per-output positions of that dimension. It is the
// external vectorizing primitive; the default is vmap.Lift.
type SingleAxisTransform func(fn Func, in []tree.Tree[vmap.Axis], out tree.Tree[vmap.Axis]) Func

type config struct {
	logger    *zap.Logger
	order     []string
	transform SingleAxisTransform
}

// Option configures Vectorize.
type Option func(*config)

// WithLogger attaches a zap logger; construction details are logged at
// debug level. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithAxisOrder overrides the composition order of named axes. The names
// must be a permutation of the discovered axes. Composition order changes
// intermediate positional indices but never the final result.
func WithAxisOrder(names ...string) Option {
	return func(c *config) { c.order = names }
}

// WithTransform substitutes the single-axis vectorizing primitive.
func WithTransform(transform SingleAxisTransform) Option {
	return func(c *config) { c.transform = transform }
}

// Vectorized is a composed, vectorized function. It is immutable after
// construction and safe for concurrent calls; every call re-validates its
// arguments independently.
type Vectorized struct {
	id      string
	fn      Func
	in      []Arg
	inSpecs []tree.Tree[Spec]
	outSpec tree.Tree[Spec]
	order   []string
	built   timespan.TimeSpan
}

// Vectorize wraps fn so that every named axis declared across the in and
// out specs is batched exactly once, wherever it sits in each argument.
//
// in declares one spec per positional parameter of fn; out declares the
// spec of fn's result. All static checks run eagerly here: spec parsing
// (ErrSpecFormat) and axis binding (ErrUnboundOutputAxis). Argument
// shapes are only known per call, so structural validation runs on every
// Call.
func Vectorize(fn Func, in []Arg, out any, opts ...Option) (*Vectorized, error) {
	start := time.Now()

	cfg := config{
		logger:    zap.NewNop(),
		transform: vmap.Lift,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	inSpecs, err := normalizeIn(in)
	if err != nil {
		return nil, err
	}
	outSpec, err := normalizeSpec(out)
	if err != nil {
		return nil, fmt.Errorf("%w (output)", err)
	}

	reg, err := buildRegistry(in, inSpecs, outSpec)
	if err != nil {
		return nil, err
	}

	order := reg.order
	if cfg.order != nil {
		if err := checkPermutation(cfg.order, reg.order); err != nil {
			return nil, err
		}
		order = cfg.order
	}

	// Resolve and freeze every axis's position tables before building any
	// transform, in the order the live lists are consumed.
	res := newResolver(inSpecs, outSpec)
	inPositions := make([][]tree.Tree[vmap.Axis], len(order))
	outPositions := make([]tree.Tree[vmap.Axis], len(order))
	for i, name := range order {
		inPositions[i], outPositions[i] = res.take(name)
	}

	// Fold right to left: the first axis in composition order becomes the
	// outermost transform, so its positions index the full declared
	// shapes, while inner transforms see the remaining dimensions.
	composed := fn
	for i := len(order) - 1; i >= 0; i-- {
		composed = cfg.transform(composed, inPositions[i], outPositions[i])
	}

	v := &Vectorized{
		id:      uuid.New().String(),
		fn:      composed,
		in:      append([]Arg(nil), in...),
		inSpecs: inSpecs,
		outSpec: outSpec,
		order:   order,
		built:   timespan.BetweenTimes(start, time.Now()),
	}

	for i, name := range order {
		cfg.logger.Debug("composed single-axis transform",
			zap.String("id", v.id),
			zap.String("axis", name),
			zap.Int("step", i),
			zap.String("positions", renderPositions(in, inPositions[i], outPositions[i])),
		)
	}
	cfg.logger.Debug("vectorized function built",
		zap.String("id", v.id),
		zap.Strings("axes", order),
		zap.Duration("took", v.built.Duration()),
	)

	return v, nil
}

// Call validates the arguments against the declared specs, invokes the
// composed function, and validates the result against the output spec.
// Validation is repeated on every call, so a corrected call succeeds
// after a failed one.
func (v *Vectorized) Call(args ...any) (any, error) {
	extents, err := validateArgs(v.in, v.inSpecs, args)
	if err != nil {
		return nil, err
	}
	result := v.fn(args...)
	if err := validateResult(v.outSpec, result, extents); err != nil {
		return nil, err
	}
	return result, nil
}

// ID returns the function's correlation id.
func (v *Vectorized) ID() string { return v.id }

// BuildSpan returns the time span of construction.
func (v *Vectorized) BuildSpan() timespan.TimeSpan { return v.built }

// AxisOrder returns the composition order of named axes.
func (v *Vectorized) AxisOrder() []string {
	return append([]string(nil), v.order...)
}

// Describe renders the declared signature: one line per parameter spec
// and one for the output spec.
func (v *Vectorized) Describe() string {
	var b strings.Builder
	for i, arg := range v.in {
		fmt.Fprintf(&b, "%s: %s\n", arg.Name, renderSpecTree(v.inSpecs[i]))
	}
	fmt.Fprintf(&b, "returns: %s", renderSpecTree(v.outSpec))
	return b.String()
}

func checkPermutation(order, discovered []string) error {
	want := make(map[string]int, len(discovered))
	for _, name := range discovered {
		want[name]++
	}
	for _, name := range order {
		if want[name] == 0 {
			return fmt.Errorf("%w: axis order %v must be a permutation of discovered axes %v",
				ErrSpecFormat, order, discovered)
		}
		want[name]--
	}
	if len(order) != len(discovered) {
		return fmt.Errorf("%w: axis order %v must be a permutation of discovered axes %v",
			ErrSpecFormat, order, discovered)
	}
	return nil
}

func renderPositions(in []Arg, inPos []tree.Tree[vmap.Axis], outPos tree.Tree[vmap.Axis]) string {
	var parts []string
	for i, pos := range inPos {
		tree.Walk(pos, in[i].Name, func(path string, a vmap.Axis) {
			parts = append(parts, fmt.Sprintf("%s=%s", path, a))
		})
	}
	tree.Walk(outPos, "output", func(path string, a vmap.Axis) {
		parts = append(parts, fmt.Sprintf("%s=%s", path, a))
	})
	return strings.Join(parts, " ")
}
