package indexanalyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeMatrixProduct(t *testing.T) {
	plan, err := Analyze("ij", []int{3, 4}, "jk", []int{4, 5}, "ik", []int{3, 5})
	require.NoError(t, err)
	require.Equal(t, 3, plan.MSize)
	require.Equal(t, 5, plan.NSize)
	require.Equal(t, 4, plan.KSize)
	require.Equal(t, 1, plan.BatchSize)
	require.Len(t, plan.M, 1)
	require.Len(t, plan.N, 1)
	require.Len(t, plan.K, 1)
	require.Empty(t, plan.Batch)
}

func TestAnalyzeDotProduct(t *testing.T) {
	plan, err := Analyze("i", []int{4}, "i", []int{4}, "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, plan.MSize)
	require.Equal(t, 1, plan.NSize)
	require.Equal(t, 4, plan.KSize)
}

func TestAnalyzeOuterProduct(t *testing.T) {
	plan, err := Analyze("i", []int{2}, "j", []int{3}, "ij", []int{2, 3})
	require.NoError(t, err)
	require.Equal(t, 2, plan.MSize)
	require.Equal(t, 3, plan.NSize)
	require.Equal(t, 1, plan.KSize)
}

func TestAnalyzeBatchedGEMM(t *testing.T) {
	plan, err := Analyze("bij", []int{2, 3, 4}, "bjk", []int{2, 4, 5}, "bik", []int{2, 3, 5})
	require.NoError(t, err)
	require.Equal(t, 2, plan.BatchSize)
	require.Equal(t, 3, plan.MSize)
	require.Equal(t, 5, plan.NSize)
	require.Equal(t, 4, plan.KSize)
}

func TestAnalyzeMalformedIndex(t *testing.T) {
	_, err := Analyze("ii", []int{2, 2}, "j", []int{3}, "ij", []int{2, 3})
	require.ErrorIs(t, err, ErrMalformedIndex)
}

func TestAnalyzeUnmatchedIndex(t *testing.T) {
	_, err := Analyze("ij", []int{2, 3}, "jk", []int{3, 4}, "ikq", []int{2, 4, 5})
	require.ErrorIs(t, err, ErrUnmatchedIndex)
}

func TestAnalyzeLengthMismatch(t *testing.T) {
	_, err := Analyze("ij", []int{2, 3}, "jk", []int{4, 5}, "ik", []int{2, 5})
	require.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestAnalyzePermutedOutput(t *testing.T) {
	// ij,jk->ki : same classification, just a different idx_C order.
	plan, err := Analyze("ij", []int{3, 4}, "jk", []int{4, 5}, "ki", []int{5, 3})
	require.NoError(t, err)
	require.Equal(t, 3, plan.MSize)
	require.Equal(t, 5, plan.NSize)
	require.Equal(t, 4, plan.KSize)
}
