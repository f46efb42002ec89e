// Package config reads the environment-variable overrides spec §6
// defines: team size and cache-block dimensions for BlockingPolicy, and
// the implementation selector. It follows the teacher's
// internal/config.NewRuntimeConfig pattern of deriving a runtime
// configuration from runtime.NumCPU, generalized to also honor explicit
// overrides the way the teacher's constants are fixed at compile time.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// ErrConfigError is returned when an environment override is present but
// invalid (non-numeric, non-positive, or an unrecognized TBLIS_IMPL).
var ErrConfigError = errors.New("config: invalid environment override")

// Impl selects the contraction implementation (spec §6 TBLIS_IMPL).
type Impl string

const (
	// ImplBLIS is the core cache-blocked kernel this module implements.
	ImplBLIS Impl = "blis"
	// ImplBLAS names the external-GEMM fallback path spec §9(b) leaves
	// underspecified; contract.Contract rejects it with
	// ErrUnsupportedImpl.
	ImplBLAS Impl = "blas"
)

// Runtime holds the resolved configuration for one contraction call.
type Runtime struct {
	// NumThreads is the team size, from TBLIS_NUM_THREADS or
	// runtime.NumCPU().
	NumThreads int
	// BlockMC, BlockNC, BlockKC are BlockingPolicy overrides; 0 means
	// "let BlockingPolicy decide".
	BlockMC, BlockNC, BlockKC int
	Impl                      Impl
}

// Load reads TBLIS_NUM_THREADS, TBLIS_BLOCK_MC, TBLIS_BLOCK_NC,
// TBLIS_BLOCK_KC, and TBLIS_IMPL from the environment, defaulting
// unthreaded options to 0 (no override) and NumThreads to
// runtime.NumCPU(). Every variable is optional; an invalid value for one
// that is set returns ErrConfigError.
func Load() (Runtime, error) {
	rt := Runtime{NumThreads: runtime.NumCPU(), Impl: ImplBLIS}

	if err := positiveIntEnv("TBLIS_NUM_THREADS", &rt.NumThreads); err != nil {
		return Runtime{}, err
	}
	if err := positiveIntEnv("TBLIS_BLOCK_MC", &rt.BlockMC); err != nil {
		return Runtime{}, err
	}
	if err := positiveIntEnv("TBLIS_BLOCK_NC", &rt.BlockNC); err != nil {
		return Runtime{}, err
	}
	if err := positiveIntEnv("TBLIS_BLOCK_KC", &rt.BlockKC); err != nil {
		return Runtime{}, err
	}

	if v, ok := os.LookupEnv("TBLIS_IMPL"); ok {
		switch Impl(v) {
		case ImplBLIS, ImplBLAS:
			rt.Impl = Impl(v)
		default:
			return Runtime{}, fmt.Errorf("%w: TBLIS_IMPL=%q (want %q or %q)", ErrConfigError, v, ImplBLIS, ImplBLAS)
		}
	}

	return rt, nil
}

func positiveIntEnv(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %s=%q must be a positive integer", ErrConfigError, name, v)
	}
	*dst = n
	return nil
}
