// Package testutil provides a seeded random tensor generator and a
// naive, directly-from-the-summation-formula reference contraction,
// for use by conformance tests only (spec §9: "keep the RNG out of
// the core, inject as a parameter into the test harness"). Outside
// tests it is imported only by cmd/tcbench; no core package imports
// it. Grounded on the teacher's test
// helpers in pkg/bitnet's _test.go files, which build small tensors
// by hand; generalized here to arbitrary rank and a seeded PRNG so
// property tests can cover many shapes.
package testutil

import (
	"math/rand/v2"

	"github.com/hyperifyio/tcontract/indexanalyzer"
	"github.com/hyperifyio/tcontract/numkind"
	"github.com/hyperifyio/tcontract/tensorview"
)

// NewRNG returns a deterministic PCG-seeded generator so a failing
// test case can be reproduced from its seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomDense builds a contiguous, row-major View of the given shape,
// filled with values from rng via fill.
func RandomDense[T numkind.Numeric](lengths []int, rng *rand.Rand, fill func(*rand.Rand) T) tensorview.View[T] {
	n := 1
	for _, l := range lengths {
		n *= l
	}
	data := make([]T, n)
	for i := range data {
		data[i] = fill(rng)
	}
	strides := rowMajorStrides(lengths)
	v, err := tensorview.New(data, lengths, strides)
	if err != nil {
		panic(err)
	}
	return v
}

func rowMajorStrides(lengths []int) []int {
	strides := make([]int, len(lengths))
	acc := 1
	for i := len(lengths) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= lengths[i]
	}
	return strides
}

// RandomReal is a RandomDense fill func producing values in [-1, 1).
func RandomReal[T ~float32 | ~float64](rng *rand.Rand) T {
	return T(rng.Float64()*2 - 1)
}

// RandomComplex64 and RandomComplex128 are RandomDense fill funcs
// producing values with both real and imaginary parts in [-1, 1).
func RandomComplex64(rng *rand.Rand) complex64 {
	return complex64(complex(rng.Float64()*2-1, rng.Float64()*2-1))
}

func RandomComplex128(rng *rand.Rand) complex128 {
	return complex(rng.Float64()*2-1, rng.Float64()*2-1)
}

// NaiveContract computes C[idx_C] := alpha*sum_K A[idx_A]*B[idx_B] +
// beta*C[idx_C] by direct enumeration of every batch/M/N/K
// multi-index, with no blocking or packing — the reference spec §8's
// conformance property is checked against.
func NaiveContract[T numkind.Numeric](alpha T, a tensorview.View[T], idxA string, b tensorview.View[T], idxB string, beta T, c tensorview.View[T], idxC string) error {
	plan, err := indexanalyzer.Analyze(idxA, a.Lengths(), idxB, b.Lengths(), idxC, c.Lengths())
	if err != nil {
		return err
	}

	batchLens := lengthsOf(plan.Batch)
	mLens := lengthsOf(plan.M)
	nLens := lengthsOf(plan.N)
	kLens := lengthsOf(plan.K)

	forEachIndex(batchLens, func(bidx []int) {
		aBase := axisOffsetA(plan.Batch, bidx, a.Strides()) + a.Offset()
		bBase := axisOffsetB(plan.Batch, bidx, b.Strides()) + b.Offset()
		cBase := axisOffsetC(plan.Batch, bidx, c.Strides()) + c.Offset()

		forEachIndex(mLens, func(midx []int) {
			forEachIndex(nLens, func(nidx []int) {
				cOff := cBase + axisOffsetC(plan.M, midx, c.Strides()) + axisOffsetC(plan.N, nidx, c.Strides())
				var sum T
				forEachIndex(kLens, func(kidx []int) {
					aOff := aBase + axisOffsetA(plan.M, midx, a.Strides()) + axisOffsetA(plan.K, kidx, a.Strides())
					bOff := bBase + axisOffsetB(plan.N, nidx, b.Strides()) + axisOffsetB(plan.K, kidx, b.Strides())
					sum = numkind.Add(sum, numkind.Mul(a.Data()[aOff], b.Data()[bOff]))
				})
				scaled := numkind.Mul(alpha, sum)
				if beta == numkind.Zero[T]() {
					c.Data()[cOff] = scaled
				} else {
					c.Data()[cOff] = numkind.Add(scaled, numkind.Mul(beta, c.Data()[cOff]))
				}
			})
		})
	})

	return nil
}

func lengthsOf(group []indexanalyzer.AxisTriple) []int {
	out := make([]int, len(group))
	for i, t := range group {
		out[i] = t.Length
	}
	return out
}

func axisOffsetA(group []indexanalyzer.AxisTriple, idx []int, strides []int) int {
	off := 0
	for i, t := range group {
		off += idx[i] * strides[t.AxisA]
	}
	return off
}

func axisOffsetB(group []indexanalyzer.AxisTriple, idx []int, strides []int) int {
	off := 0
	for i, t := range group {
		off += idx[i] * strides[t.AxisB]
	}
	return off
}

func axisOffsetC(group []indexanalyzer.AxisTriple, idx []int, strides []int) int {
	off := 0
	for i, t := range group {
		off += idx[i] * strides[t.AxisC]
	}
	return off
}

// forEachIndex calls visit once for every multi-index in row-major
// order over lens (lens may be empty, in which case visit is called
// exactly once with an empty index).
func forEachIndex(lens []int, visit func(idx []int)) {
	idx := make([]int, len(lens))
	if len(lens) == 0 {
		visit(idx)
		return
	}
	for _, l := range lens {
		if l == 0 {
			return
		}
	}
	for {
		visit(idx)
		pos := len(lens) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < lens[pos] {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
