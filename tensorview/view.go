// Package tensorview implements the engine's data model: a borrowed
// view over a dense, strided, multi-dimensional array of one numeric
// kind. A View never owns the backing storage; it is immutable metadata
// (rank, lengths, strides, a base offset) plus a reference to a caller-
// supplied slice, whose elements Set (or a write through Data()) modifies, in the spirit of the teacher's Tensor type generalized
// from a fixed int8-ternary, mutex-guarded owner to an immutable,
// generic borrow.
package tensorview

import "fmt"

// View is an immutable borrow of a rank-d tensor. Element (i0,...,i{d-1})
// with 0 <= ia < Lengths()[a] lives at Data()[Offset() + sum ia*Strides()[a]].
// Strides are expressed in elements, not bytes, and may be negative or
// non-contiguous; a zero length makes the view empty.
type View[T any] struct {
	data    []T
	offset  int
	lengths []int
	strides []int
}

// ErrRankMismatch is returned when lengths and strides disagree in rank.
var ErrRankMismatch = fmt.Errorf("tensorview: lengths and strides must have equal rank")

// ErrNegativeLength is returned when a length is negative.
var ErrNegativeLength = fmt.Errorf("tensorview: lengths must be non-negative")

// New constructs a View over data with the given per-axis lengths and
// strides (both in elements). lengths and strides are copied so the
// caller's slices may be reused or mutated afterward.
func New[T any](data []T, lengths, strides []int) (View[T], error) {
	if len(lengths) != len(strides) {
		return View[T]{}, fmt.Errorf("%w: %d lengths, %d strides", ErrRankMismatch, len(lengths), len(strides))
	}
	for _, l := range lengths {
		if l < 0 {
			return View[T]{}, fmt.Errorf("%w: got %v", ErrNegativeLength, lengths)
		}
	}
	lc := append([]int(nil), lengths...)
	sc := append([]int(nil), strides...)
	return View[T]{data: data, lengths: lc, strides: sc}, nil
}

// Rank returns the number of axes.
func (v View[T]) Rank() int { return len(v.lengths) }

// Lengths returns the per-axis extents. The returned slice must not be
// mutated by the caller.
func (v View[T]) Lengths() []int { return v.lengths }

// Strides returns the per-axis strides in elements. The returned slice
// must not be mutated by the caller.
func (v View[T]) Strides() []int { return v.strides }

// Length returns the extent of axis a.
func (v View[T]) Length(axis int) int { return v.lengths[axis] }

// Stride returns the stride of axis a, in elements.
func (v View[T]) Stride(axis int) int { return v.strides[axis] }

// Data returns the backing slice. Index into it with Offset() plus the
// dot product of a multi-index and Strides().
func (v View[T]) Data() []T { return v.data }

// Offset returns the base element offset of the view within Data().
func (v View[T]) Offset() int { return v.offset }

// Empty reports whether any axis has zero length.
func (v View[T]) Empty() bool {
	for _, l := range v.lengths {
		if l == 0 {
			return true
		}
	}
	return false
}

// At returns the element at the given multi-index.
func (v View[T]) At(indices ...int) T {
	return v.data[v.linearOffset(indices)]
}

// Set assigns the element at the given multi-index. The underlying
// slice is shared, so Set is visible to every View over the same
// storage; callers are responsible for the non-aliasing discipline the
// contraction driver enforces between operands.
func (v View[T]) Set(value T, indices ...int) {
	v.data[v.linearOffset(indices)] = value
}

func (v View[T]) linearOffset(indices []int) int {
	off := v.offset
	for a, idx := range indices {
		off += idx * v.strides[a]
	}
	return off
}

// Sub returns a view of the same rank with axis restricted to
// [start, start+length), re-based so that index 0 along axis
// corresponds to the original index start.
func (v View[T]) Sub(axis, start, length int) View[T] {
	out := v
	out.lengths = append([]int(nil), v.lengths...)
	out.lengths[axis] = length
	out.offset = v.offset + start*v.strides[axis]
	return out
}

// Transpose returns a view with axes reordered according to order, a
// permutation of [0, Rank()). order[i] names which axis of v becomes
// axis i of the result.
func (v View[T]) Transpose(order []int) View[T] {
	lengths := make([]int, len(order))
	strides := make([]int, len(order))
	for i, a := range order {
		lengths[i] = v.lengths[a]
		strides[i] = v.strides[a]
	}
	return View[T]{data: v.data, offset: v.offset, lengths: lengths, strides: strides}
}
