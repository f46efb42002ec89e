// Package pack implements the Packer (spec §4.4): gathering a tensor
// sub-block, addressed through one or more index-group axes, into a
// contiguous buffer of MR- or NR-wide micropanels the microkernel can
// stream through with unit stride. The single-pass offset-table
// construction is grounded on the teacher's BitLinear packing loop
// (pkg/bitnet/tensor/bitlinear.go), generalized from BitLinear's fixed 2-D
// row/column layout to an arbitrary list of index-group axes, the way
// original_source's tblis packer composes a multi-axis group into one
// linear offset before the gather.
package pack

import (
	"github.com/hyperifyio/tcontract/indexanalyzer"
	"github.com/hyperifyio/tcontract/numkind"
)

// AxisLenStride names one axis's extent and its stride in one tensor,
// in the order it should be enumerated (outermost first) when
// flattening a composite index group to a single linear offset.
type AxisLenStride struct {
	Length int
	Stride int
}

// BuildOffsetTable flattens a composite index group into a table of
// linear offsets, one per multi-index in row-major order over axes
// (axes[0] varies slowest). len(result) == product of axes' lengths
// (1 if axes is empty, representing a single trivial offset of 0).
func BuildOffsetTable(axes []AxisLenStride) []int {
	table := []int{0}
	for _, ax := range axes {
		next := make([]int, 0, len(table)*ax.Length)
		for _, base := range table {
			for i := 0; i < ax.Length; i++ {
				next = append(next, base+i*ax.Stride)
			}
		}
		table = next
	}
	return table
}

// AxesForA extracts the (length, stride-in-A) pairs for a group's
// triples, in group order, using each triple's AxisA to look up A's
// stride. Panics (via index out of range) if a triple does not belong
// to A; callers only pass M or K groups, which always do.
func AxesForA(group []indexanalyzer.AxisTriple, stridesA []int) []AxisLenStride {
	out := make([]AxisLenStride, len(group))
	for i, t := range group {
		out[i] = AxisLenStride{Length: t.Length, Stride: stridesA[t.AxisA]}
	}
	return out
}

// AxesForB is AxesForA's B-side counterpart, for N or K groups.
func AxesForB(group []indexanalyzer.AxisTriple, stridesB []int) []AxisLenStride {
	out := make([]AxisLenStride, len(group))
	for i, t := range group {
		out[i] = AxisLenStride{Length: t.Length, Stride: stridesB[t.AxisB]}
	}
	return out
}

// AxesForC is AxesForA's C-side counterpart, for M, N, or Batch groups
// (every triple in those groups has a valid AxisC).
func AxesForC(group []indexanalyzer.AxisTriple, stridesC []int) []AxisLenStride {
	out := make([]AxisLenStride, len(group))
	for i, t := range group {
		out[i] = AxisLenStride{Length: t.Length, Stride: stridesC[t.AxisC]}
	}
	return out
}

// PackA gathers one MC×KC block of A into dst as row-blocked MR-wide
// micropanels: for each (panel, k) in row-major (ceil(MC/MR), KC), MR
// contiguous elements. mTable and kTable are the full M- and K-group
// offset tables (from BuildOffsetTable); mOffset/mBlock and
// kOffset/kBlock select the sub-range packed this call. base is A's
// view offset for the current batch slice. dst must have length at
// least ceil(mBlock/mr)*mr*kBlock. The tail of a short final
// micropanel (mBlock not a multiple of mr) is zero-padded. If conj,
// each gathered element is conjugated (complex kinds only; a no-op for
// real kinds via numkind.Conj).
func PackA[T numkind.Numeric](dst []T, data []T, base int, mTable, kTable []int, mOffset, mBlock, kOffset, kBlock, mr int, conj bool) {
	panels := (mBlock + mr - 1) / mr
	pos := 0
	for p := 0; p < panels; p++ {
		rows := mr
		if (p+1)*mr > mBlock {
			rows = mBlock - p*mr
		}
		for kk := 0; kk < kBlock; kk++ {
			koff := kTable[kOffset+kk]
			for r := 0; r < mr; r++ {
				if r < rows {
					moff := mTable[mOffset+p*mr+r]
					v := data[base+moff+koff]
					if conj {
						v = numkind.Conj(v)
					}
					dst[pos] = v
				} else {
					dst[pos] = numkind.Zero[T]()
				}
				pos++
			}
		}
	}
}

// PackB is PackA's symmetric B-side counterpart: KC×NC laid out as
// row-blocked NR-wide micropanels (one NR-wide row per k, nr-padded at
// the N tail).
func PackB[T numkind.Numeric](dst []T, data []T, base int, kTable, nTable []int, kOffset, kBlock, nOffset, nBlock, nr int, conj bool) {
	panels := (nBlock + nr - 1) / nr
	pos := 0
	for p := 0; p < panels; p++ {
		cols := nr
		if (p+1)*nr > nBlock {
			cols = nBlock - p*nr
		}
		for kk := 0; kk < kBlock; kk++ {
			koff := kTable[kOffset+kk]
			for c := 0; c < nr; c++ {
				if c < cols {
					noff := nTable[nOffset+p*nr+c]
					v := data[base+koff+noff]
					if conj {
						v = numkind.Conj(v)
					}
					dst[pos] = v
				} else {
					dst[pos] = numkind.Zero[T]()
				}
				pos++
			}
		}
	}
}

// PanelBufLen returns the buffer length PackA/PackB need for a block
// of mnBlock rows/cols (M or N) and kBlock, at register width mnr.
func PanelBufLen(mnBlock, kBlock, mnr int) int {
	panels := (mnBlock + mnr - 1) / mnr
	return panels * mnr * kBlock
}
