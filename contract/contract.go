// Package contract implements ContractionDriver (spec §4.7), the
// engine's public entry point: validate, analyze, choose blocking,
// spawn a team, run the loop nest. It is the only package that creates
// the packed-scratch pools; the loop nest (package macrokernel) takes
// its panels from those pools, allocating on the worker goroutines when
// a pool is empty. It is the only package most callers need to import. Grounded on the
// teacher's BitLinear (pkg/bitnet/tensor/bitlinear.go) as the top-level
// operation that validates shapes, derives a runtime configuration,
// and fans out across goroutines.
package contract

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/hyperifyio/tcontract/blocking"
	"github.com/hyperifyio/tcontract/config"
	"github.com/hyperifyio/tcontract/indexanalyzer"
	"github.com/hyperifyio/tcontract/macrokernel"
	"github.com/hyperifyio/tcontract/numkind"
	"github.com/hyperifyio/tcontract/pack"
	"github.com/hyperifyio/tcontract/tclog"
	"github.com/hyperifyio/tcontract/tensorview"
	"github.com/hyperifyio/tcontract/threadcomm"
)

// Contract computes C[idx_C] := alpha * sum_K A[idx_A]*B[idx_B] +
// beta*C[idx_C], per spec §1/§4.7. A and B are read-only; C must not
// alias A or B. Every error is detected before any write to C, so a
// failed call leaves C unchanged (spec §7).
func Contract[T numkind.Numeric](alpha T, a tensorview.View[T], idxA string, b tensorview.View[T], idxB string, beta T, c tensorview.View[T], idxC string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok && strings.Contains(rerr.Error(), "out of memory") {
				err = fmt.Errorf("%w: %v", ErrOutOfMemory, rerr)
				return
			}
			panic(r)
		}
	}()

	if a.Rank() != len([]rune(idxA)) {
		return fmt.Errorf("%w: A has rank %d but idx_A has %d labels", ErrShapeError, a.Rank(), len([]rune(idxA)))
	}
	if b.Rank() != len([]rune(idxB)) {
		return fmt.Errorf("%w: B has rank %d but idx_B has %d labels", ErrShapeError, b.Rank(), len([]rune(idxB)))
	}
	if c.Rank() != len([]rune(idxC)) {
		return fmt.Errorf("%w: C has rank %d but idx_C has %d labels", ErrShapeError, c.Rank(), len([]rune(idxC)))
	}
	if aliases(a, c) {
		return fmt.Errorf("%w: C aliases A", ErrAliasError)
	}
	if aliases(b, c) {
		return fmt.Errorf("%w: C aliases B", ErrAliasError)
	}

	plan, err := indexanalyzer.Analyze(idxA, a.Lengths(), idxB, b.Lengths(), idxC, c.Lengths())
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Impl != config.ImplBLIS {
		return fmt.Errorf("%w: TBLIS_IMPL=%q", ErrUnsupportedImpl, cfg.Impl)
	}

	tclog.Debugf("contract: plan batch=%d m=%d n=%d k=%d threads=%d", plan.BatchSize, plan.MSize, plan.NSize, plan.KSize, cfg.NumThreads)

	if plan.BatchSize == 0 {
		return nil
	}

	battA := pack.BuildOffsetTable(pack.AxesForA(plan.Batch, a.Strides()))
	battB := pack.BuildOffsetTable(pack.AxesForB(plan.Batch, b.Strides()))
	battC := pack.BuildOffsetTable(pack.AxesForC(plan.Batch, c.Strides()))

	tableMA := pack.BuildOffsetTable(pack.AxesForA(plan.M, a.Strides()))
	tableKA := pack.BuildOffsetTable(pack.AxesForA(plan.K, a.Strides()))
	tableNB := pack.BuildOffsetTable(pack.AxesForB(plan.N, b.Strides()))
	tableKB := pack.BuildOffsetTable(pack.AxesForB(plan.K, b.Strides()))
	tableMC := pack.BuildOffsetTable(pack.AxesForC(plan.M, c.Strides()))
	tableNC := pack.BuildOffsetTable(pack.AxesForC(plan.N, c.Strides()))

	teamSize := cfg.NumThreads
	if teamSize < 1 {
		teamSize = 1
	}

	// spec §4.7 step 3: an empty M, N, or K group makes the contraction
	// a no-op except for scaling C by beta. This must be checked before
	// step 4 (BlockingPolicy) runs, since BlockingPolicy assumes a
	// non-empty K group to derive KC against.
	if plan.MSize == 0 || plan.NSize == 0 || plan.KSize == 0 {
		threadcomm.Parallelize(teamSize, func(comm *threadcomm.Communicator) {
			for bi := 0; bi < plan.BatchSize; bi++ {
				op := macrokernel.Operands[T]{
					DataC:   c.Data(),
					BaseC:   c.Offset() + battC[bi],
					TableMC: tableMC, TableNC: tableNC,
					M: plan.MSize, N: plan.NSize, K: plan.KSize,
					Beta: beta,
				}
				macrokernel.Run[T](comm, op, nil, nil)
			}
		})
		return nil
	}

	bp := blocking.Compute(numkind.KindOf[T](), numkind.ElemSize[T](), cfg.NumThreads, plan.MSize, plan.NSize, plan.KSize,
		blocking.Overrides{MC: cfg.BlockMC, NC: cfg.BlockNC, KC: cfg.BlockKC})

	poolA := pack.NewPool[T]()
	poolB := pack.NewPool[T]()

	threadcomm.Parallelize(teamSize, func(comm *threadcomm.Communicator) {
		for bi := 0; bi < plan.BatchSize; bi++ {
			op := macrokernel.Operands[T]{
				DataA: a.Data(), DataB: b.Data(), DataC: c.Data(),
				BaseA: a.Offset() + battA[bi],
				BaseB: b.Offset() + battB[bi],
				BaseC: c.Offset() + battC[bi],
				TableMA: tableMA, TableMC: tableMC,
				TableNB: tableNB, TableNC: tableNC,
				TableKA: tableKA, TableKB: tableKB,
				M: plan.MSize, N: plan.NSize, K: plan.KSize,
				Params: bp, Alpha: alpha, Beta: beta,
			}
			macrokernel.Run[T](comm, op, poolA, poolB)
		}
	})

	return nil
}

// aliases reports whether the memory spanned by x's and y's data
// slices overlaps, a coarse but cheap proxy for spec §5's "C's storage
// overlaps A or B" (it compares whole slices, not the elements the
// strides actually reach; it catches the case that arises from caller
// error, e.g. passing C as both output and an input operand).
func aliases[T any](x, y tensorview.View[T]) bool {
	xd, yd := x.Data(), y.Data()
	if len(xd) == 0 || len(yd) == 0 {
		return false
	}
	size := unsafe.Sizeof(xd[0])
	xs := uintptr(unsafe.Pointer(unsafe.SliceData(xd)))
	ys := uintptr(unsafe.Pointer(unsafe.SliceData(yd)))
	return xs < ys+uintptr(len(yd))*size && ys < xs+uintptr(len(xd))*size
}
