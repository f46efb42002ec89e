// Package numkind defines the four numeric value kinds the contraction
// engine operates over and the small set of operations the core needs
// from each: zero, one, addition, multiplication, conjugation, and
// squared magnitude. The core packages are written once against the
// Numeric constraint and specialized by the Go compiler per
// instantiation, in place of the C++ source's per-type template
// instantiation macros.
package numkind

import "math/cmplx"

// Numeric is the set of value kinds the engine supports: real32, real64,
// cplx64, cplx128.
type Numeric interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// ID identifies a Numeric kind at runtime, for components (BlockingPolicy)
// that must branch on kind without a type parameter in scope. There is no
// microkernel dispatch table; microkernel.Update is one generic function.
type ID int

const (
	Real32 ID = iota
	Real64
	Cplx64
	Cplx128
)

func (k ID) String() string {
	switch k {
	case Real32:
		return "real32"
	case Real64:
		return "real64"
	case Cplx64:
		return "cplx64"
	case Cplx128:
		return "cplx128"
	default:
		return "unknown"
	}
}

// KindOf reports the runtime ID of a Numeric type parameter.
func KindOf[T Numeric]() ID {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Real32
	case float64:
		return Real64
	case complex64:
		return Cplx64
	case complex128:
		return Cplx128
	default:
		panic("numkind: unsupported numeric type")
	}
}

// IsComplex reports whether T is one of the complex kinds.
func IsComplex[T Numeric]() bool {
	switch KindOf[T]() {
	case Cplx64, Cplx128:
		return true
	default:
		return false
	}
}

// Zero returns the additive identity of T.
func Zero[T Numeric]() T {
	var z T
	return z
}

// One returns the multiplicative identity of T.
func One[T Numeric]() T {
	switch any(Zero[T]()).(type) {
	case float32:
		return any(float32(1)).(T)
	case float64:
		return any(float64(1)).(T)
	case complex64:
		return any(complex64(1)).(T)
	case complex128:
		return any(complex128(1)).(T)
	default:
		panic("numkind: unsupported numeric type")
	}
}

// Add returns a+b. Defined as a free function rather than relying on the
// caller using the + operator directly so every core package goes
// through one place if widening or saturation semantics are ever needed.
func Add[T Numeric](a, b T) T { return a + b }

// Mul returns a*b.
func Mul[T Numeric](a, b T) T { return a * b }

// Conj returns the complex conjugate of x, or x unchanged for a real kind.
func Conj[T Numeric](x T) T {
	switch v := any(x).(type) {
	case float32:
		return any(v).(T)
	case float64:
		return any(v).(T)
	case complex64:
		c := complex(real(v), -imag(v))
		return any(c).(T)
	case complex128:
		return any(cmplx.Conj(v)).(T)
	default:
		panic("numkind: unsupported numeric type")
	}
}

// Abs2 returns the squared magnitude of x as a float64: x*x for a real
// kind, re²+im² for a complex kind. Used by norm() (vecops.Norm) and by
// vecops.Reduce's AbsMax comparison.
func Abs2[T Numeric](x T) float64 {
	switch v := any(x).(type) {
	case float32:
		f := float64(v)
		return f * f
	case float64:
		return v * v
	case complex64:
		c := complex128(v)
		return real(c)*real(c) + imag(c)*imag(c)
	case complex128:
		return real(v)*real(v) + imag(v)*imag(v)
	default:
		panic("numkind: unsupported numeric type")
	}
}

// FromFloat64 converts a float64 scalar into T, widening or narrowing as
// needed; a complex T gets a zero imaginary part.
func FromFloat64[T Numeric](f float64) T {
	switch any(Zero[T]()).(type) {
	case float32:
		return any(float32(f)).(T)
	case float64:
		return any(f).(T)
	case complex64:
		return any(complex64(complex(f, 0))).(T)
	case complex128:
		return any(complex(f, 0)).(T)
	default:
		panic("numkind: unsupported numeric type")
	}
}

// ElemSize returns sizeof(T) in bytes, used by BlockingPolicy's
// cache-fit arithmetic.
func ElemSize[T Numeric]() int {
	switch KindOf[T]() {
	case Real32:
		return 4
	case Real64:
		return 8
	case Cplx64:
		return 8
	case Cplx128:
		return 16
	default:
		panic("numkind: unsupported numeric type")
	}
}
