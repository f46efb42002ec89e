// Package microkernel implements the engine's innermost update: an
// MR×NR register-block rank-KC product of one packed A-micropanel and
// one packed B-micropanel, folding in α and the per-call effective β
// (spec §4.5). Addressing C through precomputed row/column offset
// tables rather than a constant (rowStride, colStride) pair is the one
// departure from a classical BLIS microkernel: it is required here
// because C's M and N groups may each be composed of several tensor
// axes with non-uniform strides (spec §4.1's multi-axis M/N groups),
// which no single stride pair can express. The accumulate-into-local,
// then-scale-and-store structure follows the teacher's BitLinear inner
// product loop (pkg/bitnet/tensor/bitlinear.go), generalized from a fixed int8
// dot product to the four numeric kinds via numkind.
package microkernel

import "github.com/hyperifyio/tcontract/numkind"

// Update computes, for the mValid×nValid (≤ mr×nr) valid sub-block of
// one register tile:
//
//	C[i,j] = alpha * sum_{p<kc} A[i,p]*B[p,j] + beta*C[i,j]
//
// A is the packed MR-wide micropanel (mr*kc elements, row-blocked: for
// p in [0,kc), mr contiguous elements). B is the packed NR-wide
// micropanel (kc*nr elements, row-blocked: for p in [0,kc), nr
// contiguous elements). rowOffsets and colOffsets give, for each of
// the mValid/nValid valid rows/columns, the element offset from
// cBase in the real C storage (cData); entries beyond mValid/nValid
// in a full mr/nr tile are not read. conj, if true, conjugates each A
// element before multiplying (for a contraction with a conjugated
// operand); B is never conjugated by this call.
func Update[T numkind.Numeric](mr, nr, kc int, a, b []T, alpha, beta T, cData []T, cBase int, rowOffsets, colOffsets []int, mValid, nValid int, conj bool) {
	acc := make([]T, mr*nr)

	for p := 0; p < kc; p++ {
		aRow := a[p*mr : p*mr+mr]
		bRow := b[p*nr : p*nr+nr]
		for i := 0; i < mr; i++ {
			av := aRow[i]
			if conj {
				av = numkind.Conj(av)
			}
			if av == numkind.Zero[T]() {
				continue
			}
			base := i * nr
			for j := 0; j < nr; j++ {
				acc[base+j] = numkind.Add(acc[base+j], numkind.Mul(av, bRow[j]))
			}
		}
	}

	for i := 0; i < mValid; i++ {
		coff := cBase + rowOffsets[i]
		for j := 0; j < nValid; j++ {
			idx := coff + colOffsets[j]
			scaled := numkind.Mul(alpha, acc[i*nr+j])
			if beta == numkind.Zero[T]() {
				cData[idx] = scaled
			} else {
				cData[idx] = numkind.Add(scaled, numkind.Mul(beta, cData[idx]))
			}
		}
	}
}
