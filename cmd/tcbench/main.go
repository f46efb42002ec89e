// Command tcbench runs one of the engine's literal conformance
// scenarios (S1-S6, spec §8) or a random-sized contraction, checks
// the result (S1-S3 against their literal expected values, the others
// against internal/testutil's naive reference), and reports elapsed
// time. It is the "build and instantiation glue" spec.md
// places out of scope for the core, given a concrete home per
// SPEC_FULL.md §4.11. Grounded on the teacher's cmd/gndtest (plain
// flag parsing, manual pass/fail summary, os.Exit(1) on failure).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hyperifyio/tcontract/contract"
	"github.com/hyperifyio/tcontract/internal/testutil"
	"github.com/hyperifyio/tcontract/tclog"
	"github.com/hyperifyio/tcontract/tensorview"
)

func main() {
	scenario := flag.String("scenario", "s1", "scenario to run: s1..s6 or random")
	size := flag.Int("size", 256, "dimension used by -scenario=random")
	seed := flag.Uint64("seed", 1, "RNG seed for -scenario=random and S4/S5/S6")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		tclog.SetLevel(tclog.LevelDebug)
	}

	start := time.Now()
	ok, err := run(*scenario, *size, *seed)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Printf("scenario %s: error: %v\n", *scenario, err)
		os.Exit(1)
	}
	fmt.Printf("scenario %s: match=%v elapsed=%s\n", *scenario, ok, elapsed)
	if !ok {
		os.Exit(1)
	}
}

func run(scenario string, size int, seed uint64) (bool, error) {
	switch scenario {
	case "s1":
		return runS1()
	case "s2":
		return runS2()
	case "s3":
		return runS3()
	case "s4":
		return runBatchedGEMM(seed)
	case "s5":
		return runPermuted(seed)
	case "s6":
		return runAlphaBeta(seed)
	case "random":
		return runRandom(size, seed)
	default:
		return false, fmt.Errorf("tcbench: unknown scenario %q", scenario)
	}
}

func denseReal(data []float64, lengths []int) tensorview.View[float64] {
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

func runS1() (bool, error) {
	eye := func() tensorview.View[float64] {
		d := make([]float64, 9)
		for i := 0; i < 3; i++ {
			d[i*3+i] = 1
		}
		return denseReal(d, []int{3, 3})
	}
	a, b := eye(), eye()
	c := denseReal(make([]float64, 9), []int{3, 3})
	if err := contract.Contract[float64](1, a, "ij", b, "jk", 0, c, "ik"); err != nil {
		return false, err
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if c.At(i, j) != want {
				return false, nil
			}
		}
	}
	return true, nil
}

func runS2() (bool, error) {
	a := denseReal([]float64{1, 2, 3, 4}, []int{4})
	b := denseReal([]float64{1, 2, 3, 4}, []int{4})
	c := denseReal(make([]float64, 1), nil)
	if err := contract.Contract[float64](1, a, "i", b, "i", 0, c, ""); err != nil {
		return false, err
	}
	return c.At() == 30, nil
}

func runS3() (bool, error) {
	a := denseReal([]float64{1, 2}, []int{2})
	b := denseReal([]float64{10, 20, 30}, []int{3})
	c := denseReal(make([]float64, 6), []int{2, 3})
	if err := contract.Contract[float64](1, a, "i", b, "j", 0, c, "ij"); err != nil {
		return false, err
	}
	want := [][]float64{{10, 20, 30}, {20, 40, 60}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if c.At(i, j) != want[i][j] {
				return false, nil
			}
		}
	}
	return true, nil
}

func runBatchedGEMM(seed uint64) (bool, error) {
	rng := testutil.NewRNG(seed)
	a := testutil.RandomDense[float64]([]int{2, 3, 4}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{2, 4, 5}, rng, testutil.RandomReal[float64])
	c := denseReal(make([]float64, 2*3*5), []int{2, 3, 5})
	cRef := denseReal(make([]float64, 2*3*5), []int{2, 3, 5})
	if err := contract.Contract[float64](1, a, "bij", b, "bjk", 0, c, "bik"); err != nil {
		return false, err
	}
	if err := testutil.NaiveContract[float64](1, a, "bij", b, "bjk", 0, cRef, "bik"); err != nil {
		return false, err
	}
	return allClose(c.Data(), cRef.Data(), 1e-9), nil
}

func runPermuted(seed uint64) (bool, error) {
	rng := testutil.NewRNG(seed)
	a := testutil.RandomDense[float64]([]int{3, 4}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{4, 5}, rng, testutil.RandomReal[float64])
	c := denseReal(make([]float64, 15), []int{5, 3})
	cRef := denseReal(make([]float64, 15), []int{5, 3})
	if err := contract.Contract[float64](1, a, "ij", b, "jk", 0, c, "ki"); err != nil {
		return false, err
	}
	if err := testutil.NaiveContract[float64](1, a, "ij", b, "jk", 0, cRef, "ki"); err != nil {
		return false, err
	}
	return allClose(c.Data(), cRef.Data(), 1e-9), nil
}

func runAlphaBeta(seed uint64) (bool, error) {
	rng := testutil.NewRNG(seed)
	m, n, k := 37, 29, 41
	a := testutil.RandomDense[float64]([]int{m, k}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{k, n}, rng, testutil.RandomReal[float64])
	init := make([]float64, m*n)
	for i := range init {
		init[i] = rng.Float64()*2 - 1
	}
	c := denseReal(append([]float64(nil), init...), []int{m, n})
	cRef := denseReal(append([]float64(nil), init...), []int{m, n})
	if err := contract.Contract[float64](2, a, "ij", b, "jk", -1, c, "ik"); err != nil {
		return false, err
	}
	if err := testutil.NaiveContract[float64](2, a, "ij", b, "jk", -1, cRef, "ik"); err != nil {
		return false, err
	}
	return allCloseRel(c.Data(), cRef.Data(), 1e-10), nil
}

func runRandom(size int, seed uint64) (bool, error) {
	rng := testutil.NewRNG(seed)
	a := testutil.RandomDense[float64]([]int{size, size}, rng, testutil.RandomReal[float64])
	b := testutil.RandomDense[float64]([]int{size, size}, rng, testutil.RandomReal[float64])
	c := denseReal(make([]float64, size*size), []int{size, size})
	cRef := denseReal(make([]float64, size*size), []int{size, size})
	if err := contract.Contract[float64](1, a, "ij", b, "jk", 0, c, "ik"); err != nil {
		return false, err
	}
	if err := testutil.NaiveContract[float64](1, a, "ij", b, "jk", 0, cRef, "ik"); err != nil {
		return false, err
	}
	return allClose(c.Data(), cRef.Data(), 1e-7), nil
}

func allClose(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > eps {
			return false
		}
	}
	return true
}

func allCloseRel(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		denom := b[i]
		if denom < 0 {
			denom = -denom
		}
		if denom < 1 {
			denom = 1
		}
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d/denom > eps {
			return false
		}
	}
	return true
}
