package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrStructureMismatch = errors.New("tree structure mismatch")

// Tree mirrors the nested container shape of one argument or result.
// It is a closed representation: a node is a Leaf, a List, or a Record.
type Tree[T any] interface {
	node()
}

// Leaf holds a single spec or marker value.
type Leaf[T any] struct {
	Value T
}

// List is an ordered sequence of subtrees, matching a []any value.
type List[T any] struct {
	Items []Tree[T]
}

// Record is a key-ordered mapping of subtrees, matching a map[string]any value.
// Keys are kept sorted so traversal order is deterministic.
type Record[T any] struct {
	Keys  []string
	Items []Tree[T]
}

func (Leaf[T]) node()   {}
func (List[T]) node()   {}
func (Record[T]) node() {}

// NewLeaf wraps a value as a leaf node.
func NewLeaf[T any](v T) Tree[T] { return Leaf[T]{Value: v} }

// NewList builds a list node from subtrees.
func NewList[T any](items ...Tree[T]) Tree[T] { return List[T]{Items: items} }

// NewRecord builds a record node from an unordered map, sorting its keys.
func NewRecord[T any](fields map[string]Tree[T]) Tree[T] {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]Tree[T], len(keys))
	for i, k := range keys {
		items[i] = fields[k]
	}
	return Record[T]{Keys: keys, Items: items}
}

// Leaves collects leaf values in depth-first order.
func Leaves[T any](t Tree[T]) []T {
	var out []T
	Walk(t, "", func(_ string, v T) {
		out = append(out, v)
	})
	return out
}

// Walk visits every leaf depth-first, passing a human-readable path
// rooted at the given name.
func Walk[T any](t Tree[T], path string, visit func(path string, v T)) {
	switch n := t.(type) {
	case Leaf[T]:
		visit(path, n.Value)
	case List[T]:
		for i, item := range n.Items {
			Walk(item, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	case Record[T]:
		for i, item := range n.Items {
			Walk(item, fmt.Sprintf("%s[%q]", path, n.Keys[i]), visit)
		}
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", t))
	}
}

// Map rebuilds a tree with every leaf transformed.
func Map[T, U any](t Tree[T], fn func(T) U) Tree[U] {
	switch n := t.(type) {
	case Leaf[T]:
		return Leaf[U]{Value: fn(n.Value)}
	case List[T]:
		items := make([]Tree[U], len(n.Items))
		for i, item := range n.Items {
			items[i] = Map(item, fn)
		}
		return List[U]{Items: items}
	case Record[T]:
		items := make([]Tree[U], len(n.Items))
		for i, item := range n.Items {
			items[i] = Map(item, fn)
		}
		return Record[U]{Keys: n.Keys, Items: items}
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", t))
	}
}

// ZipValue walks a tree against a plain Go value of the same shape,
// visiting each (leaf, value) pair. Containers must match node for node:
// List against []any of equal length, Record against map[string]any with
// exactly the record's keys. Mismatches fail with ErrStructureMismatch
// naming the path at fault.
func ZipValue[T any](t Tree[T], v any, path string, visit func(path string, leaf T, val any) error) error {
	switch n := t.(type) {
	case Leaf[T]:
		return visit(path, n.Value, v)
	case List[T]:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%w: %s expected a list, got %T", ErrStructureMismatch, path, v)
		}
		if len(items) != len(n.Items) {
			return fmt.Errorf("%w: %s has %d elements, expected %d",
				ErrStructureMismatch, path, len(items), len(n.Items))
		}
		for i, item := range n.Items {
			if err := ZipValue(item, items[i], fmt.Sprintf("%s[%d]", path, i), visit); err != nil {
				return err
			}
		}
		return nil
	case Record[T]:
		fields, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s expected a record, got %T", ErrStructureMismatch, path, v)
		}
		if len(fields) != len(n.Keys) {
			return fmt.Errorf("%w: %s has %d fields, expected keys %s",
				ErrStructureMismatch, path, len(fields), strings.Join(n.Keys, ", "))
		}
		for i, item := range n.Items {
			val, ok := fields[n.Keys[i]]
			if !ok {
				return fmt.Errorf("%w: %s missing field %q", ErrStructureMismatch, path, n.Keys[i])
			}
			if err := ZipValue(item, val, fmt.Sprintf("%s[%q]", path, n.Keys[i]), visit); err != nil {
				return err
			}
		}
		return nil
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", t))
	}
}

// MapValue rebuilds a plain Go value of the tree's shape with every leaf
// value transformed. The value must already have been checked against the
// tree (see ZipValue); shape violations panic.
func MapValue[T any](t Tree[T], v any, fn func(leaf T, val any) any) any {
	switch n := t.(type) {
	case Leaf[T]:
		return fn(n.Value, v)
	case List[T]:
		items := v.([]any)
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = MapValue(item, items[i], fn)
		}
		return out
	case Record[T]:
		fields := v.(map[string]any)
		out := make(map[string]any, len(n.Keys))
		for i, item := range n.Items {
			out[n.Keys[i]] = MapValue(item, fields[n.Keys[i]], fn)
		}
		return out
	default:
		panic(fmt.Sprintf("tree: unknown node type %T", t))
	}
}
