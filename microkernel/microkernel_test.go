package microkernel

import "testing"

func TestUpdateBasicProduct(t *testing.T) {
	const mr, nr, kc = 2, 2, 2
	// A micropanel (row-blocked, mr-wide): p=0 -> [1,2], p=1 -> [3,4]
	a := []float64{1, 2, 3, 4}
	// B micropanel (row-blocked, nr-wide): p=0 -> [5,6], p=1 -> [7,8]
	b := []float64{5, 6, 7, 8}

	// Expected A (2x2, row-major over i,p): [[1,3],[2,4]]
	// Expected B (2x2, row-major over p,j): [[5,6],[7,8]]
	// C = A*B: row0 = [1*5+3*7, 1*6+3*8] = [26,30]; row1 = [2*5+4*7, 2*6+4*8] = [38,44]
	c := make([]float64, 4)
	rowOffsets := []int{0, 2}
	colOffsets := []int{0, 1}

	Update[float64](mr, nr, kc, a, b, 1, 0, c, 0, rowOffsets, colOffsets, mr, nr, false)

	if c[0] != 26 || c[1] != 30 {
		t.Errorf("row0 = [%v,%v], want [26,30]", c[0], c[1])
	}
	if c[2] != 38 || c[3] != 44 {
		t.Errorf("row1 = [%v,%v], want [38,44]", c[2], c[3])
	}
}

func TestUpdateAccumulatesWithBeta(t *testing.T) {
	const mr, nr, kc = 1, 1, 1
	a := []float64{2}
	b := []float64{3}
	c := []float64{100}
	rowOffsets := []int{0}
	colOffsets := []int{0}

	Update[float64](mr, nr, kc, a, b, 2, 0.5, c, 0, rowOffsets, colOffsets, 1, 1, false)

	// alpha*A*B + beta*C = 2*2*3 + 0.5*100 = 12+50 = 62
	if c[0] != 62 {
		t.Errorf("c[0] = %v, want 62", c[0])
	}
}

func TestUpdatePartialTileIgnoresPadding(t *testing.T) {
	const mr, nr, kc = 2, 2, 1
	// Only row 0, col 0 is "valid"; row/col 1 are zero-padded by the
	// packer and must not be written to C.
	a := []float64{5, 0}
	b := []float64{7, 0}
	c := []float64{1000}
	rowOffsets := []int{0}
	colOffsets := []int{0}

	Update[float64](mr, nr, kc, a, b, 1, 0, c, 0, rowOffsets, colOffsets, 1, 1, false)

	if c[0] != 35 {
		t.Errorf("c[0] = %v, want 35", c[0])
	}
	if len(c) != 1 {
		t.Fatalf("test setup error: len(c) = %d", len(c))
	}
}

func TestUpdateConjugatesA(t *testing.T) {
	const mr, nr, kc = 1, 1, 1
	a := []complex128{complex(1, 2)}
	b := []complex128{complex(3, 0)}
	c := []complex128{0}
	rowOffsets := []int{0}
	colOffsets := []int{0}

	Update[complex128](mr, nr, kc, a, b, 1, 0, c, 0, rowOffsets, colOffsets, 1, 1, true)

	want := complex(3, -6) // conj(1+2i)*3 = (1-2i)*3
	if c[0] != want {
		t.Errorf("c[0] = %v, want %v", c[0], want)
	}
}
