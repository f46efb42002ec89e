// Package blocking computes the register- and cache-blocking
// dimensions (MR, NR, KC, MC, NC) a contraction call uses, per spec
// §4.2. Register tile sizes are fixed per numeric kind, matching a
// microkernel compiled for that kind; cache tile sizes are derived
// from nominal cache capacities the way the teacher's
// internal/config.NewRuntimeConfig derives worker counts from
// runtime.NumCPU, generalized here to runtime.NumCPU-independent
// cache-size constants since Go exposes no portable cache-size query.
package blocking

import "github.com/hyperifyio/tcontract/numkind"

// Nominal cache capacities, in bytes, used to size KC/MC/NC. These are
// conservative defaults for a typical desktop/server core; TBLIS_BLOCK_*
// overrides (config.Runtime) bypass the derivation entirely.
const (
	l1Bytes = 32 * 1024
	l2Bytes = 256 * 1024
	l3Bytes = 6 * 1024 * 1024
)

// Params is one call's blocking decision.
type Params struct {
	MR, NR int
	MC, NC int
	KC     int
}

// Overrides carries config.Runtime's optional MC/NC/KC overrides,
// expressed structurally here so blocking does not import config and
// introduce a cycle; contract translates config.Runtime into this.
type Overrides struct {
	MC, NC, KC int
}

// registerDims returns the fixed MR×NR register tile for kind, chosen
// the way spec §4.2 suggests (8×6 for real64) and scaled down for
// wider element sizes so the register footprint stays comparable
// across kinds.
func registerDims(kind numkind.ID) (mr, nr int) {
	switch kind {
	case numkind.Real32:
		return 16, 6
	case numkind.Real64:
		return 8, 6
	case numkind.Cplx64:
		return 8, 4
	case numkind.Cplx128:
		return 4, 4
	default:
		return 8, 6
	}
}

func roundUp(n, multiple int) int {
	if multiple <= 0 {
		return n
	}
	if n%multiple == 0 {
		return n
	}
	return (n/multiple + 1) * multiple
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Compute derives MR, NR, KC, MC, NC for one contraction call.
// elemSize is numkind.ElemSize(kind) in bytes; m, n, k are the plan's
// effective dimensions. teamSize currently does not change the
// per-thread block sizes (cache capacity is per-core, not shared) but
// is accepted so a future NUMA-aware policy can use it without
// changing the call's signature.
func Compute(kind numkind.ID, elemSize, teamSize, m, n, k int, ov Overrides) Params {
	mr, nr := registerDims(kind)

	if k == 0 {
		// Nothing to block against an empty K group; the driver takes
		// the empty-range β-scaling path (spec §4.7 step 3) instead of
		// entering the loop nest, so these values are never consumed by
		// a live pack/microkernel call.
		return Params{MR: mr, NR: nr, MC: 0, NC: 0, KC: 0}
	}

	kc := ov.KC
	if kc <= 0 {
		// One MR×KC A-micropanel plus one KC×NR B-micropanel must fit
		// in L1: KC*(mr+nr)*elemSize <= l1Bytes.
		kc = l1Bytes / ((mr + nr) * elemSize)
		if kc < 1 {
			kc = 1
		}
	}
	kc = min(kc, k)
	if kc < 1 {
		kc = 1
	}

	mc := ov.MC
	if mc <= 0 {
		// MC*KC*elemSize <= l2Bytes, MC a multiple of MR.
		mc = l2Bytes / (kc * elemSize)
		mc = (mc / mr) * mr
		if mc < mr {
			mc = mr
		}
	}
	mc = min(mc, roundUp(m, mr))

	nc := ov.NC
	if nc <= 0 {
		// NC*KC*elemSize <= l3Bytes, NC a multiple of NR.
		nc = l3Bytes / (kc * elemSize)
		nc = (nc / nr) * nr
		if nc < nr {
			nc = nr
		}
	}
	nc = min(nc, roundUp(n, nr))

	return Params{MR: mr, NR: nr, MC: mc, NC: nc, KC: kc}
}
