package skiplist

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	xrand "golang.org/x/exp/rand"
)

// DefaultMaxLevels and DefaultProbability are the construction-time
// parameters used when New is called without WithMaxLevels/WithProbability.
const (
	DefaultMaxLevels   = 16
	DefaultProbability = 0.5
)

// levelGenerator draws min(maxLevels, 1+Geometric(p)) height samples.
//
// The reference implementation this package is modeled on seeds one
// math/rand.Rand behind a mutex shared by every caller, which turns level
// selection into a point of lock contention on every insert — exactly the
// defect a lock-free structure is supposed to avoid. Here each draw takes an
// independently-seeded *rand.Rand out of a sync.Pool and returns it when
// done, so a generator is only ever used by one goroutine at a time and
// level selection never takes a lock.
type levelGenerator struct {
	maxLevels int
	p         float64
	pool      sync.Pool
}

func newLevelGenerator(maxLevels int, p float64) *levelGenerator {
	lg := &levelGenerator{maxLevels: maxLevels, p: p}
	lg.pool.New = func() any {
		return xrand.New(xrand.NewSource(seedFromEntropy()))
	}
	return lg
}

// seedFromEntropy produces an independent 64-bit seed per call. It is not
// on any hot path that needs to be fast; it runs only when the pool has no
// generator to hand out.
func seedFromEntropy() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return splitmix64(0x9E3779B97F4A7C15)
	}
	return splitmix64(binary.LittleEndian.Uint64(b[:]))
}

// splitmix64 mixes a seed into a well-distributed 64-bit value, per the
// spec's suggestion of "an atomic counter fed through a mixing function"
// for thread-independent seeding.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// next returns a height in [1, maxLevels] from the geometric distribution
// with parameter p.
func (lg *levelGenerator) next() int {
	r := lg.pool.Get().(*xrand.Rand)
	defer lg.pool.Put(r)

	height := 1
	for height < lg.maxLevels && r.Float64() < lg.p {
		height++
	}
	return height
}
