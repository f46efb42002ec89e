// Package vecops implements spec §6's external-collaborator
// primitives (norm, scale, copy, add, reduce): thin elementwise
// operations over a tensorview.View, parallelized across a
// threadcomm team for large extents. Grounded on the teacher's
// BitLinear chunked-goroutine loop (pkg/bitnet/tensor/bitlinear.go),
// generalized from a fixed int8 batch/feature matmul to elementwise
// traversal of an arbitrary-rank numeric View, and from a manual
// chunkSize/WaitGroup pair to the engine's own threadcomm.Parallelize
// and DistributeOverThreads.
package vecops

import (
	"math"

	"github.com/hyperifyio/tcontract/numkind"
	"github.com/hyperifyio/tcontract/tensorview"
	"github.com/hyperifyio/tcontract/threadcomm"
)

// parallelThreshold is the element count below which traversal runs
// on the calling goroutine rather than paying team-spawn overhead.
const parallelThreshold = 1 << 14

func numTeam(total int) int {
	if total < parallelThreshold {
		return 1
	}
	return 8
}

// total returns the product of v's lengths (the element count for a
// dense traversal), treating a rank-0 view as a single element.
func total[T any](v tensorview.View[T]) int {
	n := 1
	for _, l := range v.Lengths() {
		n *= l
	}
	return n
}

// forEachFlat partitions [0, n) across a threadcomm team and calls
// visit(lo, hi) once per team member with its disjoint sub-range. It
// is the traversal strategy every function in this package shares.
func forEachFlat(n int, visit func(lo, hi int)) {
	threadcomm.Parallelize(numTeam(n), func(comm *threadcomm.Communicator) {
		lo, hi := comm.DistributeOverThreads(n)
		visit(lo, hi)
	})
}

// unravel converts a flat row-major index in [0, total(v)) into a
// multi-index for v.
func unravel[T any](v tensorview.View[T], flat int) []int {
	lengths := v.Lengths()
	idx := make([]int, len(lengths))
	for a := len(lengths) - 1; a >= 0; a-- {
		if lengths[a] == 0 {
			return idx
		}
		idx[a] = flat % lengths[a]
		flat /= lengths[a]
	}
	return idx
}

// Norm returns the Frobenius norm of a: sqrt(sum |a_i|^2).
func Norm[T numkind.Numeric](a tensorview.View[T]) float64 {
	n := total(a)
	if n == 0 {
		return 0
	}
	var sum float64
	resultsCh := make(chan float64, numTeam(n))
	forEachFlat(n, func(lo, hi int) {
		var partial float64
		for f := lo; f < hi; f++ {
			partial += numkind.Abs2(a.At(unravel(a, f)...))
		}
		resultsCh <- partial
	})
	close(resultsCh)
	for s := range resultsCh {
		sum += s
	}
	return math.Sqrt(sum)
}

// Scale computes a[i] *= alpha in place.
func Scale[T numkind.Numeric](alpha T, a tensorview.View[T]) {
	n := total(a)
	forEachFlat(n, func(lo, hi int) {
		for f := lo; f < hi; f++ {
			idx := unravel(a, f)
			a.Set(numkind.Mul(alpha, a.At(idx...)), idx...)
		}
	})
}

// Copy sets dst[i] = src[i] for every element; dst and src must have
// equal shape.
func Copy[T numkind.Numeric](dst, src tensorview.View[T]) {
	n := total(src)
	forEachFlat(n, func(lo, hi int) {
		for f := lo; f < hi; f++ {
			idx := unravel(src, f)
			dst.Set(src.At(idx...), idx...)
		}
	})
}

// Add computes dst[i] = alpha*dst[i] + beta*src[i] for every element;
// dst and src must have equal shape.
func Add[T numkind.Numeric](alpha T, dst tensorview.View[T], beta T, src tensorview.View[T]) {
	n := total(dst)
	forEachFlat(n, func(lo, hi int) {
		for f := lo; f < hi; f++ {
			idx := unravel(dst, f)
			v := numkind.Add(numkind.Mul(alpha, dst.At(idx...)), numkind.Mul(beta, src.At(idx...)))
			dst.Set(v, idx...)
		}
	})
}

// ReduceOp selects Reduce's combining operation.
type ReduceOp int

const (
	ReduceSum ReduceOp = iota
	ReduceMax
	ReduceMin
	ReduceAbsMax
)

// Reduce folds a's elements with op (sum/max/min/absmax). Max and Min
// compare real parts for complex kinds (matching a componentwise
// ordering is ill-defined for complex numbers); AbsMax compares
// squared magnitude, valid for every kind.
func Reduce[T numkind.Numeric](a tensorview.View[T], op ReduceOp) T {
	n := total(a)
	if n == 0 {
		return numkind.Zero[T]()
	}
	resultsCh := make(chan T, numTeam(n))
	forEachFlat(n, func(lo, hi int) {
		acc := a.At(unravel(a, lo)...)
		for f := lo + 1; f < hi; f++ {
			v := a.At(unravel(a, f)...)
			acc = combine(acc, v, op)
		}
		resultsCh <- acc
	})
	close(resultsCh)
	first := true
	var out T
	for v := range resultsCh {
		if first {
			out = v
			first = false
			continue
		}
		out = combine(out, v, op)
	}
	return out
}

func combine[T numkind.Numeric](a, b T, op ReduceOp) T {
	switch op {
	case ReduceSum:
		return numkind.Add(a, b)
	case ReduceMax:
		if realPart(b) > realPart(a) {
			return b
		}
		return a
	case ReduceMin:
		if realPart(b) < realPart(a) {
			return b
		}
		return a
	case ReduceAbsMax:
		if numkind.Abs2(b) > numkind.Abs2(a) {
			return b
		}
		return a
	default:
		return a
	}
}

func realPart[T numkind.Numeric](x T) float64 {
	switch v := any(x).(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case complex64:
		return float64(real(v))
	case complex128:
		return real(v)
	default:
		return 0
	}
}
