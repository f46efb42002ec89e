package config

import (
	"errors"
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TBLIS_NUM_THREADS", "TBLIS_BLOCK_MC", "TBLIS_BLOCK_NC", "TBLIS_BLOCK_KC", "TBLIS_IMPL"} {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		if had {
			t.Cleanup(func() { os.Setenv(k, old) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	rt, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rt.NumThreads <= 0 {
		t.Errorf("NumThreads = %d, want > 0", rt.NumThreads)
	}
	if rt.Impl != ImplBLIS {
		t.Errorf("Impl = %v, want %v", rt.Impl, ImplBLIS)
	}
	if rt.BlockMC != 0 || rt.BlockNC != 0 || rt.BlockKC != 0 {
		t.Error("expected no block overrides by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TBLIS_NUM_THREADS", "4")
	t.Setenv("TBLIS_BLOCK_MC", "128")
	t.Setenv("TBLIS_IMPL", "blas")
	rt, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rt.NumThreads != 4 {
		t.Errorf("NumThreads = %d, want 4", rt.NumThreads)
	}
	if rt.BlockMC != 128 {
		t.Errorf("BlockMC = %d, want 128", rt.BlockMC)
	}
	if rt.Impl != ImplBLAS {
		t.Errorf("Impl = %v, want %v", rt.Impl, ImplBLAS)
	}
}

func TestLoadInvalidThreadCount(t *testing.T) {
	clearEnv(t)
	t.Setenv("TBLIS_NUM_THREADS", "-1")
	_, err := Load()
	if !errors.Is(err, ErrConfigError) {
		t.Fatalf("expected ErrConfigError, got %v", err)
	}
}

func TestLoadInvalidImpl(t *testing.T) {
	clearEnv(t)
	t.Setenv("TBLIS_IMPL", "cuda")
	_, err := Load()
	if !errors.Is(err, ErrConfigError) {
		t.Fatalf("expected ErrConfigError, got %v", err)
	}
}
