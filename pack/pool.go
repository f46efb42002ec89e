package pack

import "sync"

// Pool reuses packing scratch buffers across IC/PC iterations within
// one contraction call (spec §4.7: "packing buffers are reused across
// IC/PC iterations"), grounded on the teacher's bufferPool
// (pkg/bitnet/tensor/bitlinear.go), generalized from a fixed []int8 slice to any
// element type via a generic wrapper over sync.Pool, since sync.Pool
// itself cannot be instantiated generically (it stores `any`).
type Pool[T any] struct {
	pool sync.Pool
}

// NewPool returns an empty pool. It sets no sync.Pool New function; Get
// allocates a fresh buffer whenever the pool has none to hand back.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Get returns a buffer with length exactly n, either reused from the
// pool (grown if the reused buffer was shorter) or freshly allocated.
func (p *Pool[T]) Get(n int) []T {
	v := p.pool.Get()
	if v == nil {
		return make([]T, n)
	}
	buf := v.([]T)
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

// Put returns buf to the pool for reuse by a later Get.
func (p *Pool[T]) Put(buf []T) {
	p.pool.Put(buf)
}
