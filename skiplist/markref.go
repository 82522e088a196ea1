package skiplist

import (
	"cmp"
	"sync/atomic"
)

// markableRef is the immutable pair (ref, marked) held behind an
// atomicMarkableRef. A new pair is never mutated in place; every set/cas
// replaces the pointer to a freshly allocated pair.
type markableRef[K cmp.Ordered, V any] struct {
	ref    *Node[K, V]
	marked bool
}

// atomicMarkableRef is a single atomically-mutable cell holding a forward
// pointer together with its logical-delete bit. Both fields are published
// or observed together, so a reader can never see a pointer without the
// mark that was current at the moment the pointer was written.
//
// The cell is backed by atomic.Pointer to an immutable heap-allocated pair
// rather than a tagged pointer: Node allocations in Go are not guaranteed
// any particular alignment a caller can safely steal a bit from, so the
// pair-pointer representation is the portable choice here.
type atomicMarkableRef[K cmp.Ordered, V any] struct {
	pair atomic.Pointer[markableRef[K, V]]
}

func newAtomicMarkableRef[K cmp.Ordered, V any](ref *Node[K, V], marked bool) *atomicMarkableRef[K, V] {
	a := &atomicMarkableRef[K, V]{}
	a.pair.Store(&markableRef[K, V]{ref: ref, marked: marked})
	return a
}

// load returns the current (ref, marked) pair as one atomic observation.
func (a *atomicMarkableRef[K, V]) load() (*Node[K, V], bool) {
	cur := a.pair.Load()
	return cur.ref, cur.marked
}

func (a *atomicMarkableRef[K, V]) getRef() *Node[K, V] {
	return a.pair.Load().ref
}

func (a *atomicMarkableRef[K, V]) getMark() bool {
	return a.pair.Load().marked
}

// set unconditionally overwrites the pair. It is a no-op when the new pair
// already equals the currently observed one.
func (a *atomicMarkableRef[K, V]) set(ref *Node[K, V], marked bool) {
	cur := a.pair.Load()
	if cur.ref == ref && cur.marked == marked {
		return
	}
	a.pair.Store(&markableRef[K, V]{ref: ref, marked: marked})
}

// cas succeeds iff the current pair equals (expectedRef, expectedMark), in
// which case it is atomically replaced by (newRef, newMark). It also
// reports success, without touching the cell, when the requested pair is
// already the one in place.
func (a *atomicMarkableRef[K, V]) cas(expectedRef *Node[K, V], expectedMark bool, newRef *Node[K, V], newMark bool) bool {
	cur := a.pair.Load()
	if cur.ref != expectedRef || cur.marked != expectedMark {
		return false
	}
	if cur.ref == newRef && cur.marked == newMark {
		return true
	}
	return a.pair.CompareAndSwap(cur, &markableRef[K, V]{ref: newRef, marked: newMark})
}
