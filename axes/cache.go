package axes

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/on-the-ground/xmap_ive_go/shared/memo"
)

// Cache memoizes Vectorize by function identity and spec fingerprint.
// Axis specs are structural, not per-call data: a composed function is
// built once per distinct configuration and reused for every call sharing
// it. The cache is bounded and safe for concurrent use.
//
// Options are applied only when an entry is built; callers that vary
// options for the same fn/spec pair should use separate caches. Function
// identity is the code pointer: two closures made from the same literal
// with different captured state are considered the same function.
type Cache struct {
	table *memo.Table[*Vectorized]
}

// NewCache creates a cache holding at most maxSize composed functions per
// memo generation.
func NewCache(maxSize uint32) *Cache {
	return &Cache{table: memo.New[*Vectorized](maxSize)}
}

// Vectorize returns the cached composed function for (fn, in, out),
// building and storing it on first use.
func (c *Cache) Vectorize(fn Func, in []Arg, out any, opts ...Option) (*Vectorized, error) {
	key, err := cacheKey(fn, in, out)
	if err != nil {
		return nil, err
	}
	if v, ok := c.table.Load(key); ok {
		return v, nil
	}
	v, err := Vectorize(fn, in, out, opts...)
	if err != nil {
		return nil, err
	}
	c.table.Store(key, v)
	return v, nil
}

// cacheKey fingerprints the function pointer plus the canonical rendering
// of the normalized specs.
func cacheKey(fn Func, in []Arg, out any) (string, error) {
	inSpecs, err := normalizeIn(in)
	if err != nil {
		return "", err
	}
	outSpec, err := normalizeSpec(out)
	if err != nil {
		return "", fmt.Errorf("%w (output)", err)
	}

	var b strings.Builder
	for i, arg := range in {
		fmt.Fprintf(&b, "%s=%s;", arg.Name, renderSpecTree(inSpecs[i]))
	}
	fmt.Fprintf(&b, "->%s", renderSpecTree(outSpec))

	return fmt.Sprintf("%x:%x", reflect.ValueOf(fn).Pointer(), xxhash.Sum64String(b.String())), nil
}
