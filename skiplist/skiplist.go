// Package skiplist implements a concurrent, lock-free ordered map keyed by
// an ordered type, as a probabilistically-balanced skip list with logical
// deletion. Insert and Remove are lock-free: some goroutine always
// completes its call in a bounded number of its own steps, system-wide,
// under contention. Get is wait-free: it never retries on a failed
// compare-and-swap, so every goroutine completes it in O(log N) expected
// steps regardless of what other goroutines are doing.
//
// There is no global lock anywhere in this package. Every cross-goroutine
// write to a node's forward pointers goes through atomicMarkableRef's
// compare-and-swap; a node's key and value are never touched again once
// the node is published.
//
// Unlinked nodes are not freed back to a free list or reclaimed with
// hazard pointers or epochs; they are simply dropped and left for Go's
// garbage collector, which is sufficient because nothing in this package
// reads memory after it decides a node is unreachable. A concurrent
// traversal that is still holding a stale pointer into an unlinked tower
// will keep that tower alive for as long as the traversal runs, which is
// bounded by that traversal's own progress.
package skiplist

import (
	"cmp"
	"fmt"
	"io"
)

// Option configures a SkipList at construction time.
type Option[K cmp.Ordered, V any] func(*SkipList[K, V])

// WithMaxLevels overrides DefaultMaxLevels.
func WithMaxLevels[K cmp.Ordered, V any](n int) Option[K, V] {
	return func(s *SkipList[K, V]) { s.maxLevels = n }
}

// WithProbability overrides DefaultProbability, the per-level promotion
// probability used by the level generator.
func WithProbability[K cmp.Ordered, V any](p float64) Option[K, V] {
	return func(s *SkipList[K, V]) { s.probability = p }
}

// SkipList is a concurrent ordered map from K to V. The zero value is not
// usable; construct one with New.
type SkipList[K cmp.Ordered, V any] struct {
	maxLevels   int
	probability float64
	head        *Node[K, V]
	nilNode     *Node[K, V]
	levels      *levelGenerator
}

// New constructs an empty SkipList. Keys must be totally ordered via the
// built-in comparison operators (cmp.Ordered); values may be of any type.
func New[K cmp.Ordered, V any](opts ...Option[K, V]) *SkipList[K, V] {
	s := &SkipList[K, V]{
		maxLevels:   DefaultMaxLevels,
		probability: DefaultProbability,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.head = newSentinel[K, V](headSentinel, s.maxLevels)
	s.nilNode = newSentinel[K, V](nilSentinel, s.maxLevels)
	for level := 0; level <= s.maxLevels; level++ {
		s.head.forward[level].set(s.nilNode, false)
	}
	s.levels = newLevelGenerator(s.maxLevels, s.probability)
	return s
}

// findWithGC is the traversal that anchors every other operation. It
// locates key's position at every level and, as a side effect, physically
// unlinks any marked node it passes over.
//
// On return, for every level ℓ: preds[ℓ].forward[ℓ] pointed at succs[ℓ] at
// some instant during the call, preds[ℓ].key < key, and succs[ℓ] was
// observed unmarked at level ℓ at that instant (or is NIL). found reports
// whether succs[0] is bound to key.
//
// If a compare-and-swap attempting to unlink a marked node fails, some
// other goroutine has changed pred's successor since we read it, which may
// invalidate choices already made at higher levels, so the whole traversal
// restarts from HEAD.
func (s *SkipList[K, V]) findWithGC(key K) (found bool, preds, succs []*Node[K, V]) {
	preds = make([]*Node[K, V], s.maxLevels+1)
	succs = make([]*Node[K, V], s.maxLevels+1)

retry:
	pred := s.head
	for level := s.maxLevels; level >= 0; level-- {
		curr := pred.forward[level].getRef()
		for {
			succ, marked := curr.forward[level].load()
			for marked {
				if !pred.forward[level].cas(curr, false, succ, false) {
					goto retry
				}
				curr = succ
				succ, marked = curr.forward[level].load()
			}
			if curr.keyLess(key) {
				pred = curr
				curr = succ
				continue
			}
			break
		}
		preds[level] = pred
		succs[level] = curr
	}
	return succs[0].equalKey(key), preds, succs
}

// Insert binds key to value if key is not already present, and reports
// whether a new node was created. If key is already bound, the existing
// binding is kept and value is discarded (silent-drop, not an update).
//
// The linearization point is the compare-and-swap that links the new node
// at level 0: before it the node is invisible to every other goroutine,
// after it the node is logically present even though its upper-level links
// may not be installed yet. A concurrent Get arriving in that window is
// still correct because the bottom chain alone decides membership.
func (s *SkipList[K, V]) Insert(key K, value V) bool {
	height := s.levels.next()
	n := newNode(key, value, height)

	for {
		found, preds, succs := s.findWithGC(key)
		if found {
			return false
		}

		for level := 0; level < height; level++ {
			n.forward[level] = newAtomicMarkableRef(succs[level], false)
		}

		if !preds[0].forward[0].cas(succs[0], false, n, false) {
			continue
		}

		for level := 1; level < height; level++ {
			for {
				if preds[level].forward[level].cas(succs[level], false, n, false) {
					break
				}
				_, preds, succs = s.findWithGC(key)
			}
		}
		return true
	}
}

// Remove logically deletes key and reports whether this call is the one
// that did it: false means key was already absent, or another goroutine
// won the race to remove it first.
//
// The linearization point is the compare-and-swap that sets the level-0
// mark: before it the node is present, after it the node is logically
// absent even though higher-level marks and the physical unlink may still
// be in flight. Remove helps finish the physical unlink by re-running
// findWithGC once it has committed, but correctness never depends on that
// unlink completing.
func (s *SkipList[K, V]) Remove(key K) bool {
	found, _, succs := s.findWithGC(key)
	if !found {
		return false
	}
	victim := succs[0]

	for level := len(victim.forward) - 1; level >= 1; level-- {
		for {
			succ, marked := victim.forward[level].load()
			if marked {
				break
			}
			victim.forward[level].cas(succ, false, succ, true)
		}
	}

	for {
		succ, marked := victim.forward[0].load()
		if victim.forward[0].cas(succ, false, succ, true) {
			s.findWithGC(key)
			return true
		}
		if marked {
			return false
		}
	}
}

// Get is a wait-free lookup: it never retries after a failed
// compare-and-swap, because it never attempts one. Encountering a marked
// node, it simply reads past it instead of trying to unlink it, which is
// what gives it its wait-free bound in favor of Insert/Remove's merely
// lock-free one. Prefer Get whenever a caller only needs to read.
func (s *SkipList[K, V]) Get(key K) (V, bool) {
	pred := s.head
	var curr *Node[K, V]
	for level := s.maxLevels; level >= 0; level-- {
		curr = pred.forward[level].getRef()
		for {
			succ, marked := curr.forward[level].load()
			for marked {
				curr = succ
				succ, marked = curr.forward[level].load()
			}
			if curr.keyLess(key) {
				pred = curr
				curr = succ
				continue
			}
			break
		}
	}

	var zero V
	if !curr.equalKey(key) {
		return zero, false
	}
	if _, marked := curr.forward[0].load(); marked {
		return zero, false
	}
	return curr.value, true
}

// Len walks the bottom-level chain and counts unmarked nodes. It is a
// diagnostic, non-linearizable count: under concurrent mutation the true
// size at any given instant is not a well-defined single number, so this
// is only meaningful at quiescence or as an approximation.
func (s *SkipList[K, V]) Len() int {
	count := 0
	for curr := s.head.forward[0].getRef(); !curr.isSentinel(); curr = curr.forward[0].getRef() {
		if _, marked := curr.forward[0].load(); !marked {
			count++
		}
	}
	return count
}

// Print walks the bottom-level chain and writes one line per node to w:
// its key, value, tower height, and a "(marked)" flag for nodes observed
// logically deleted but not yet physically unlinked. Any error returned by
// w is propagated to the caller without modification.
func (s *SkipList[K, V]) Print(w io.Writer) error {
	for curr := s.head.forward[0].getRef(); !curr.isSentinel(); curr = curr.forward[0].getRef() {
		_, marked := curr.forward[0].load()
		suffix := ""
		if marked {
			suffix = " (marked)"
		}
		if _, err := fmt.Fprintf(w, "key=%v value=%v level=%d%s\n", curr.key, curr.value, len(curr.forward), suffix); err != nil {
			return err
		}
	}
	return nil
}
