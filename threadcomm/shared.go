package threadcomm

import "sync"

// sharedState is the state shared by every member of one team: the
// barrier's counters and a single-slot mailbox used by Reduce and
// Broadcast. A team's shared state is created once, in Parallelize or
// GangSplit, and lives for the team's lifetime.
type sharedState struct {
	n int

	barrierMu   sync.Mutex
	barrierCond *sync.Cond
	arrived     int
	generation  int

	mailMu    sync.Mutex
	mailValue any
}

func newSharedState(n int) *sharedState {
	s := &sharedState{n: n}
	s.barrierCond = sync.NewCond(&s.barrierMu)
	return s
}
