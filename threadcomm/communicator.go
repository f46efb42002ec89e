// Package threadcomm implements the engine's hierarchical thread
// communicator: a team of goroutines cooperating on one contraction
// call via barrier, reduce, broadcast, range-splitting, and nested
// sub-team formation. The collective contract (distribute_over_threads,
// reduce, barrier) is grounded directly on original_source's
// ThreadCommunicator (src/1v/tblis_normfv.cxx); the Go idiom of
// spawning a fixed worker count and joining on a WaitGroup follows the
// teacher's BitLinear.
package threadcomm

import (
	"sync"

	"github.com/hyperifyio/tcontract/internal/tcassert"
)

// Communicator is a team of cooperating goroutines executing one
// contraction call, or one sub-team formed by GangSplit. Every
// collective (Barrier, Reduce, Broadcast, GangSplit) must be invoked by
// every member of the team; violating this is a programming error. It
// is not detected or returned as an error: the members that did call the
// collective stay blocked in Barrier.
type Communicator struct {
	tid     int
	nthread int
	shared  *sharedState
}

// Parallelize spawns n goroutines, each running fn with its own root
// Communicator, and blocks until all have returned. n<=1 runs fn
// synchronously on the calling goroutine with a single-member team.
func Parallelize(n int, fn func(comm *Communicator)) {
	if n <= 1 {
		fn(&Communicator{tid: 0, nthread: 1, shared: newSharedState(1)})
		return
	}
	shared := newSharedState(n)
	var wg sync.WaitGroup
	wg.Add(n)
	for tid := 0; tid < n; tid++ {
		go func(tid int) {
			defer wg.Done()
			fn(&Communicator{tid: tid, nthread: n, shared: shared})
		}(tid)
	}
	wg.Wait()
}

// Tid returns this goroutine's rank within the team, in [0, TeamSize()).
func (c *Communicator) Tid() int { return c.tid }

// TeamSize returns the number of members in the team.
func (c *Communicator) TeamSize() int { return c.nthread }

// Barrier blocks until every member of the team has called Barrier.
// Completion establishes happens-before on every prior memory access by
// every team member, via the underlying mutex/condition-variable.
func (c *Communicator) Barrier() {
	s := c.shared
	s.barrierMu.Lock()
	gen := s.generation
	s.arrived++
	if s.arrived == s.n {
		s.arrived = 0
		s.generation++
		s.barrierCond.Broadcast()
	} else {
		for gen == s.generation {
			s.barrierCond.Wait()
		}
	}
	s.barrierMu.Unlock()
}

// DistributeOverThreads returns the half-open range [lo, hi) of [0, n)
// assigned to this team member, partitioning n disjointly and nearly
// evenly across the team. It is a pure function of (tid, TeamSize(), n)
// and requires no synchronization.
func (c *Communicator) DistributeOverThreads(n int) (lo, hi int) {
	return SplitRange(n, c.nthread, c.tid)
}

// SplitRange partitions [0, total) into `parts` nearly-even, disjoint
// ranges and returns the one belonging to index `part`. It underlies
// DistributeOverThreads.
func SplitRange(total, parts, part int) (lo, hi int) {
	tcassert.Assert(parts > 0, "SplitRange: parts must be positive, got %d", parts)
	tcassert.Assert(part >= 0 && part < parts, "SplitRange: part %d out of range [0,%d)", part, parts)
	base := total / parts
	rem := total % parts
	if part < rem {
		lo = part * (base + 1)
		hi = lo + base + 1
	} else {
		lo = rem*(base+1) + (part-rem)*base
		hi = lo + base
	}
	return lo, hi
}

// GangSplit partitions the team into g sub-teams of nearly-even size and
// returns the sub-communicator this member belongs to, along with that
// sub-team's index in [0, g). Sub-communicators are nestable: calling
// GangSplit again on the result forms a further level of the team tree.
// Every member of the calling team must invoke GangSplit with the same g.
func (c *Communicator) GangSplit(g int) (sub *Communicator, group int) {
	if g < 1 {
		g = 1
	}
	if g > c.nthread {
		g = c.nthread
	}

	groupOf := make([]int, c.nthread)
	localTid := make([]int, c.nthread)
	sizes := make([]int, g)
	for t := 0; t < c.nthread; t++ {
		grp := t * g / c.nthread
		groupOf[t] = grp
		localTid[t] = sizes[grp]
		sizes[grp]++
	}

	var children []*sharedState
	if c.tid == 0 {
		children = make([]*sharedState, g)
		for i := range children {
			children[i] = newSharedState(sizes[i])
		}
	}
	children = Broadcast(c, children, 0)

	grp := groupOf[c.tid]
	return &Communicator{tid: localTid[c.tid], nthread: sizes[grp], shared: children[grp]}, grp
}
