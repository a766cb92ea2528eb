// Package sorttable implements the append-only sorted tables the core
// uses for its schema registry (tlv.SchemaRegistry): ascending order by
// key, ordered-tree lookup, never hash-map iteration. The module has no
// separate type registry.
//
// The backing store is a github.com/google/btree ordered tree rather than
// a hand-rolled binary search over a growing slice. Ascend iteration
// order out of a btree.BTreeG is already key-ascending, so the
// no-randomized-iteration property holds structurally, not by
// convention.
package sorttable

import (
	"github.com/google/btree"

	"github.com/Julesc013/dominium-sub017/detcode"
)

// Table is a sorted, append-only table from a uint64 key to a value of
// type V. Administrative insertion happens before ticks begin; lookups
// during a tick never mutate it.
type Table[V any] struct {
	tree *btree.BTreeG[entry[V]]
}

type entry[V any] struct {
	key   uint64
	value V
}

func less[V any](a, b entry[V]) bool { return a.key < b.key }

// New returns an empty sorted table.
func New[V any]() *Table[V] {
	return &Table[V]{tree: btree.NewG(32, less[V])}
}

// Insert adds key->value. It rejects a key that already exists with
// detcode.Duplicate, preserving the append-only contract.
func (t *Table[V]) Insert(key uint64, value V) detcode.Code {
	if _, found := t.tree.Get(entry[V]{key: key}); found {
		return detcode.Duplicate
	}
	t.tree.ReplaceOrInsert(entry[V]{key: key, value: value})
	return detcode.OK
}

// Lookup returns the value for key, if present.
func (t *Table[V]) Lookup(key uint64) (V, bool) {
	e, found := t.tree.Get(entry[V]{key: key})
	return e.value, found
}

// Len returns the number of entries.
func (t *Table[V]) Len() int { return t.tree.Len() }

// Ascend visits every entry in ascending key order. Iteration stops early
// if fn returns false, matching btree.BTreeG.Ascend's own contract.
func (t *Table[V]) Ascend(fn func(key uint64, value V) bool) {
	t.tree.Ascend(func(e entry[V]) bool {
		return fn(e.key, e.value)
	})
}
