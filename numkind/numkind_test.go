package numkind

import "testing"

func TestKindOf(t *testing.T) {
	if KindOf[float32]() != Real32 {
		t.Errorf("KindOf[float32]() = %v, want Real32", KindOf[float32]())
	}
	if KindOf[float64]() != Real64 {
		t.Errorf("KindOf[float64]() = %v, want Real64", KindOf[float64]())
	}
	if KindOf[complex64]() != Cplx64 {
		t.Errorf("KindOf[complex64]() = %v, want Cplx64", KindOf[complex64]())
	}
	if KindOf[complex128]() != Cplx128 {
		t.Errorf("KindOf[complex128]() = %v, want Cplx128", KindOf[complex128]())
	}
}

func TestIsComplex(t *testing.T) {
	if IsComplex[float64]() {
		t.Error("IsComplex[float64]() = true, want false")
	}
	if !IsComplex[complex128]() {
		t.Error("IsComplex[complex128]() = false, want true")
	}
}

func TestConjReal(t *testing.T) {
	if Conj(3.5) != 3.5 {
		t.Errorf("Conj(3.5) = %v, want 3.5", Conj(3.5))
	}
}

func TestConjComplex(t *testing.T) {
	got := Conj(complex128(complex(1, 2)))
	want := complex(1.0, -2.0)
	if got != want {
		t.Errorf("Conj(1+2i) = %v, want %v", got, want)
	}
}

func TestAbs2(t *testing.T) {
	if got := Abs2(3.0); got != 9.0 {
		t.Errorf("Abs2(3.0) = %v, want 9.0", got)
	}
	if got := Abs2(complex128(complex(3, 4))); got != 25.0 {
		t.Errorf("Abs2(3+4i) = %v, want 25.0", got)
	}
}

func TestAddMul(t *testing.T) {
	if Add(2.0, 3.0) != 5.0 {
		t.Error("Add(2,3) != 5")
	}
	if Mul(2.0, 3.0) != 6.0 {
		t.Error("Mul(2,3) != 6")
	}
}

func TestZeroOne(t *testing.T) {
	if Zero[float64]() != 0 {
		t.Error("Zero[float64]() != 0")
	}
	if One[complex64]() != 1 {
		t.Error("One[complex64]() != 1")
	}
}

func TestElemSize(t *testing.T) {
	cases := map[ID]int{Real32: 4, Real64: 8, Cplx64: 8, Cplx128: 16}
	if got := ElemSize[float32](); got != cases[Real32] {
		t.Errorf("ElemSize[float32]() = %d", got)
	}
	if got := ElemSize[complex128](); got != cases[Cplx128] {
		t.Errorf("ElemSize[complex128]() = %d", got)
	}
}
