package contract

import (
	"math"
	"testing"

	"github.com/hyperifyio/tcontract/internal/testutil"
	"github.com/hyperifyio/tcontract/tensorview"
)

func identity3() tensorview.View[float64] {
	data := make([]float64, 9)
	for i := 0; i < 3; i++ {
		data[i*3+i] = 1
	}
	v, err := tensorview.New(data, []int{3, 3}, []int{3, 1})
	if err != nil {
		panic(err)
	}
	return v
}

func dense(data []float64, lengths []int) tensorview.View[float64] {
	strides := make([]int, len(lengths))
	acc := 1
	for i := len(lengths) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= lengths[i]
	}
	v, err := tensorview.New(data, lengths, strides)
	if err != nil {
		panic(err)
	}
	return v
}

// S1: matrix product of two identities is the identity.
func TestS1MatrixProduct(t *testing.T) {
	a := identity3()
	b := identity3()
	c := dense(make([]float64, 9), []int{3, 3})

	if err := Contract[float64](1, a, "ij", b, "jk", 0, c, "ik"); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if got := c.At(i, j); got != want {
				t.Errorf("C[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

// S2: dot product as a rank-0-output contraction.
func TestS2DotProduct(t *testing.T) {
	a := dense([]float64{1, 2, 3, 4}, []int{4})
	b := dense([]float64{1, 2, 3, 4}, []int{4})
	c := dense(make([]float64, 1), nil)

	if err := Contract[float64](1, a, "i", b, "i", 0, c, ""); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if got := c.At(); got != 30 {
		t.Errorf("C = %v, want 30", got)
	}
}

// S3: outer product.
func TestS3OuterProduct(t *testing.T) {
	a := dense([]float64{1, 2}, []int{2})
	b := dense([]float64{10, 20, 30}, []int{3})
	c := dense(make([]float64, 6), []int{2, 3})

	if err := Contract[float64](1, a, "i", b, "j", 0, c, "ij"); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	want := [][]float64{{10, 20, 30}, {20, 40, 60}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if got := c.At(i, j); got != want[i][j] {
				t.Errorf("C[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

// S4: batched GEMM — each batch index is an independent matrix product.
func TestS4BatchedGEMM(t *testing.T) {
	rng := testutil.NewRNG(42)
	a := testutil.RandomDense[float64]([]int{2, 3, 4}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{2, 4, 5}, rng, testutil.RandomReal[float64])
	c := dense(make([]float64, 2*3*5), []int{2, 3, 5})
	cRef := dense(make([]float64, 2*3*5), []int{2, 3, 5})

	if err := Contract[float64](1, a, "bij", b, "bjk", 0, c, "bik"); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if err := testutil.NaiveContract[float64](1, a, "bij", b, "bjk", 0, cRef, "bik"); err != nil {
		t.Fatalf("NaiveContract: %v", err)
	}
	assertClose(t, c.Data(), cRef.Data(), 1e-9)
}

// S5: permuted output — "ij,jk->ki" is the transpose of the ordinary product.
func TestS5PermutedOutput(t *testing.T) {
	rng := testutil.NewRNG(7)
	a := testutil.RandomDense[float64]([]int{3, 4}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{4, 5}, rng, testutil.RandomReal[float64])
	c := dense(make([]float64, 5*3), []int{5, 3})
	cRef := dense(make([]float64, 5*3), []int{5, 3})

	if err := Contract[float64](1, a, "ij", b, "jk", 0, c, "ki"); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if err := testutil.NaiveContract[float64](1, a, "ij", b, "jk", 0, cRef, "ki"); err != nil {
		t.Fatalf("NaiveContract: %v", err)
	}
	assertClose(t, c.Data(), cRef.Data(), 1e-9)
}

// S6: alpha/beta scaling over random inputs, checked against the naive
// reference within a relative tolerance.
func TestS6AlphaBeta(t *testing.T) {
	rng := testutil.NewRNG(99)
	m, n, k := 17, 13, 9
	a := testutil.RandomDense[float64]([]int{m, k}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{k, n}, rng, testutil.RandomReal[float64])

	cInit := make([]float64, m*n)
	for i := range cInit {
		cInit[i] = rng.Float64()*2 - 1
	}
	c := dense(append([]float64(nil), cInit...), []int{m, n})
	cRef := dense(append([]float64(nil), cInit...), []int{m, n})

	alpha, beta := 2.0, -1.0
	if err := Contract[float64](alpha, a, "ij", b, "jk", beta, c, "ik"); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	if err := testutil.NaiveContract[float64](alpha, a, "ij", b, "jk", beta, cRef, "ik"); err != nil {
		t.Fatalf("NaiveContract: %v", err)
	}
	assertCloseRel(t, c.Data(), cRef.Data(), 1e-10)
}

func TestContractRejectsShapeMismatch(t *testing.T) {
	a := dense(make([]float64, 6), []int{2, 3})
	b := dense(make([]float64, 6), []int{2, 3})
	c := dense(make([]float64, 4), []int{2, 2})
	err := Contract[float64](1, a, "ij", b, "jk", 0, c, "ik")
	if err == nil {
		t.Fatal("expected ErrLengthMismatch, got nil")
	}
}

func TestContractRejectsAliasedC(t *testing.T) {
	data := make([]float64, 9)
	a := identity3()
	b := dense(data, []int{3, 3})
	c := dense(data, []int{3, 3})
	err := Contract[float64](1, a, "ij", b, "jk", 0, c, "ik")
	if err == nil {
		t.Fatal("expected ErrAliasError, got nil")
	}
}

// An empty K group (spec §3 "a zero length makes the tensor empty")
// must scale C by beta and return, without entering BlockingPolicy or
// the loop nest (spec §4.7 step 3 precedes step 4).
func TestContractEmptyKScalesCByBeta(t *testing.T) {
	m, n := 4, 5
	a := dense(nil, []int{m, 0})
	b := dense(nil, []int{0, n})

	cInit := make([]float64, m*n)
	for i := range cInit {
		cInit[i] = float64(i + 1)
	}
	c := dense(append([]float64(nil), cInit...), []int{m, n})

	beta := -2.0
	if err := Contract[float64](1, a, "ik", b, "kj", beta, c, "ij"); err != nil {
		t.Fatalf("Contract: %v", err)
	}
	for i, got := range c.Data() {
		want := beta * cInit[i]
		if got != want {
			t.Fatalf("C[%d] = %v, want %v (beta*original)", i, got, want)
		}
	}
}

func assertClose(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func assertCloseRel(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range got {
		denom := math.Abs(want[i])
		if denom < 1 {
			denom = 1
		}
		if math.Abs(got[i]-want[i])/denom > eps {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
