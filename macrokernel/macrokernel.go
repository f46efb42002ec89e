// Package macrokernel implements the five-nested loop (JC over N, PC
// over K, IC over M, JR over NR, IR over MR) that drives packing and
// microkernel calls across a thread team (spec §4.6). Thread
// decomposition is simplified relative to a full BLIS implementation:
// rather than gang-splitting the team across JC and IC independently,
// the M dimension is partitioned once across the whole team (via
// ThreadCommunicator.DistributeOverThreads), so every team member owns
// a disjoint, non-overlapping range of C rows for the entire call and
// no cross-thread synchronization is needed around microkernel writes
// to C — only around the shared B-panel pack. This keeps the nest
// correct and parallel while staying within the single Update/Pack
// primitives already built; the full gang-split hierarchy spec §5
// describes as a "static 2- or 3-level fan-out" is left as a follow-on
// refinement once a single-level split is proven out. Grounded on the
// teacher's BitLinear row-chunking across goroutines
// (pkg/bitnet/tensor/bitlinear.go), generalized from a flat matmul to the
// packed micropanel nest.
package macrokernel

import (
	"github.com/hyperifyio/tcontract/blocking"
	"github.com/hyperifyio/tcontract/microkernel"
	"github.com/hyperifyio/tcontract/numkind"
	"github.com/hyperifyio/tcontract/pack"
	"github.com/hyperifyio/tcontract/tclog"
	"github.com/hyperifyio/tcontract/threadcomm"
)

// Operands bundles one batch slice's data pointers, offset tables, and
// blocking parameters for one Run call. Tables are indexed by the
// global M/N/K coordinate (0..M, 0..N, 0..K) and give the element
// offset of that coordinate relative to BaseA/BaseB/BaseC.
type Operands[T numkind.Numeric] struct {
	DataA, DataB, DataC       []T
	BaseA, BaseB, BaseC       int
	TableMA, TableMC          []int
	TableNB, TableNC          []int
	TableKA, TableKB          []int
	M, N, K                   int
	Params                    blocking.Params
	Alpha, Beta               T
	ConjA                     bool
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Run executes the loop nest for one batch slice. Every member of
// comm's team must call Run with equal Operands (same M, N, K,
// Params, data/table pointers) — only the thread-local M sub-range
// differs in practice, which Run derives internally.
func Run[T numkind.Numeric](comm *threadcomm.Communicator, op Operands[T], poolA, poolB *pack.Pool[T]) {
	if op.M == 0 || op.N == 0 || op.K == 0 {
		applyBetaOnly(comm, op)
		return
	}

	p := op.Params
	myLo, myHi := comm.DistributeOverThreads(op.M)
	tclog.Debugf("macrokernel: tid=%d owns m-range [%d,%d) of %d", comm.Tid(), myLo, myHi, op.M)

	for jc := 0; jc < op.N; jc += p.NC {
		nc := min(p.NC, op.N-jc)

		for pc := 0; pc < op.K; pc += p.KC {
			kc := min(p.KC, op.K-pc)
			betaEff := op.Beta
			if pc != 0 {
				betaEff = numkind.One[T]()
			}

			var bBuf []T
			if comm.Tid() == 0 {
				bBuf = poolB.Get(pack.PanelBufLen(nc, kc, p.NR))
				pack.PackB[T](bBuf, op.DataB, op.BaseB, op.TableKB, op.TableNB, pc, kc, jc, nc, p.NR, false)
			}
			bBuf = threadcomm.Broadcast(comm, bBuf, 0)

			runMyRange(op, p, myLo, myHi, jc, nc, pc, kc, betaEff, bBuf, poolA)

			// Every member must finish reading bBuf before tid 0 reuses
			// the pool slot on the next (jc,pc) iteration.
			comm.Barrier()
			if comm.Tid() == 0 {
				poolB.Put(bBuf)
			}
		}
	}
}

func runMyRange[T numkind.Numeric](op Operands[T], p blocking.Params, myLo, myHi, jc, nc, pc, kc int, betaEff T, bBuf []T, poolA *pack.Pool[T]) {
	if myLo >= myHi {
		return
	}
	for ic := myLo; ic < myHi; ic += p.MC {
		mc := min(p.MC, myHi-ic)

		aBuf := poolA.Get(pack.PanelBufLen(mc, kc, p.MR))
		pack.PackA[T](aBuf, op.DataA, op.BaseA, op.TableMA, op.TableKA, ic, mc, pc, kc, p.MR, op.ConjA)

		for jr := 0; jr < nc; jr += p.NR {
			nr := min(p.NR, nc-jr)
			bPanel := bBuf[(jr/p.NR)*kc*p.NR : (jr/p.NR)*kc*p.NR+kc*p.NR]

			for ir := 0; ir < mc; ir += p.MR {
				mr := min(p.MR, mc-ir)
				aPanel := aBuf[(ir/p.MR)*kc*p.MR : (ir/p.MR)*kc*p.MR+kc*p.MR]

				rowOffsets := make([]int, mr)
				for r := 0; r < mr; r++ {
					rowOffsets[r] = op.TableMC[ic+ir+r]
				}
				colOffsets := make([]int, nr)
				for c := 0; c < nr; c++ {
					colOffsets[c] = op.TableNC[jc+jr+c]
				}

				microkernel.Update[T](p.MR, p.NR, kc, aPanel, bPanel, op.Alpha, betaEff, op.DataC, op.BaseC, rowOffsets, colOffsets, mr, nr, false)
			}
		}

		poolA.Put(aBuf)
	}
}

// applyBetaOnly implements spec §4.7 step 3: when any of m, n, k,
// batch is zero the contraction is a no-op except for scaling C by
// beta (or zeroing it, if beta is the additive identity).
func applyBetaOnly[T numkind.Numeric](comm *threadcomm.Communicator, op Operands[T]) {
	if op.M == 0 || op.N == 0 {
		return
	}
	lo, hi := comm.DistributeOverThreads(op.M)
	zero := numkind.Zero[T]()
	for m := lo; m < hi; m++ {
		rowBase := op.BaseC + op.TableMC[m]
		for n := 0; n < op.N; n++ {
			idx := rowBase + op.TableNC[n]
			if op.Beta == zero {
				op.DataC[idx] = zero
			} else {
				op.DataC[idx] = numkind.Mul(op.Beta, op.DataC[idx])
			}
		}
	}
}
