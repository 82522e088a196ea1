package skiplist

import "cmp"

// nodeKind tags head/tail sentinels so a key type without a natural ±∞
// value can still be compared against the list boundaries.
type nodeKind uint8

const (
	normalNode nodeKind = iota
	headSentinel
	nilSentinel
)

// Node is a skip-list record. key and value are immutable once the node is
// constructed; only the per-level forward cells are ever mutated, and only
// through atomicMarkableRef's load/set/cas.
type Node[K cmp.Ordered, V any] struct {
	kind    nodeKind
	key     K
	value   V
	forward []*atomicMarkableRef[K, V]
}

// newNode creates a node with the given tower height (number of forward
// cells; the spec's top_level is height-1). Forward cells are populated by
// the caller (Insert) once the node's successors at each level are known.
func newNode[K cmp.Ordered, V any](key K, value V, height int) *Node[K, V] {
	return &Node[K, V]{
		kind:    normalNode,
		key:     key,
		value:   value,
		forward: make([]*atomicMarkableRef[K, V], height),
	}
}

// newSentinel builds HEAD or NIL with maximum height, every cell initially
// holding (nil, unmarked). Callers rewire head's cells to point at NIL
// immediately after construction; NIL's cells keep the nil reference.
func newSentinel[K cmp.Ordered, V any](kind nodeKind, maxLevels int) *Node[K, V] {
	n := &Node[K, V]{kind: kind, forward: make([]*atomicMarkableRef[K, V], maxLevels+1)}
	for level := range n.forward {
		n.forward[level] = newAtomicMarkableRef[K, V](nil, false)
	}
	return n
}

// keyLess reports whether n sorts strictly before key, treating HEAD as -∞
// and NIL as +∞.
func (n *Node[K, V]) keyLess(key K) bool {
	switch n.kind {
	case headSentinel:
		return true
	case nilSentinel:
		return false
	default:
		return n.key < key
	}
}

// equalKey reports whether n is a normal node bound to exactly key.
func (n *Node[K, V]) equalKey(key K) bool {
	return n.kind == normalNode && n.key == key
}

func (n *Node[K, V]) isSentinel() bool {
	return n.kind != normalNode
}
