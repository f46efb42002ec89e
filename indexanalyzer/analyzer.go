// Package indexanalyzer classifies the labels of a contraction's three
// index strings into the batch, M, N, and K groups defined by spec §3-4.1,
// validating label uniqueness and length agreement along the way. The
// validation style (wrapping a sentinel error with fmt.Errorf for
// context) follows the teacher's pkg/bitnet/internal/math shape
// validators.
package indexanalyzer

import (
	"errors"
	"fmt"
)

// Errors reported by Analyze. Each is a distinct sentinel so callers can
// discriminate with errors.Is; the driver (package contract) re-exports
// them as part of its own exported taxonomy.
var (
	ErrMalformedIndex = errors.New("indexanalyzer: repeated label within one index string")
	ErrUnmatchedIndex = errors.New("indexanalyzer: label appears in exactly one of A, B, C")
	ErrLengthMismatch = errors.New("indexanalyzer: shared label has inconsistent lengths across tensors")
)

// AxisTriple records, for one label in one of the four groups, which
// axis of each tensor it occupies. A tensor the label does not belong to
// is recorded as axis -1.
type AxisTriple struct {
	AxisA, AxisB, AxisC int
	Length              int
	Label               rune
}

// Plan is the classification and derived sizes produced by Analyze.
type Plan struct {
	// Batch holds labels appearing in A, B, and C (outer product over C,
	// not summed), ordered by first appearance in idx_C.
	Batch []AxisTriple
	// M holds labels in A and C but not B, ordered by first appearance
	// in idx_A.
	M []AxisTriple
	// N holds labels in B and C but not A, ordered by first appearance
	// in idx_B.
	N []AxisTriple
	// K holds labels in A and B but not C (the summation axes), ordered
	// by first appearance in idx_A.
	K []AxisTriple

	BatchSize, MSize, NSize, KSize int
}

type membership struct {
	inA, inB, inC       bool
	axisA, axisB, axisC int
	lenA, lenB, lenC    int
}

// Analyze classifies the labels of idxA/idxB/idxC (one rune per axis,
// unique within each string) given the corresponding tensor lengths, and
// reports the resulting Plan.
func Analyze(idxA string, lenA []int, idxB string, lenB []int, idxC string, lenC []int) (Plan, error) {
	runesA := []rune(idxA)
	runesB := []rune(idxB)
	runesC := []rune(idxC)

	if len(runesA) != len(lenA) {
		return Plan{}, fmt.Errorf("indexanalyzer: idx_A has %d labels but A has %d axes", len(runesA), len(lenA))
	}
	if len(runesB) != len(lenB) {
		return Plan{}, fmt.Errorf("indexanalyzer: idx_B has %d labels but B has %d axes", len(runesB), len(lenB))
	}
	if len(runesC) != len(lenC) {
		return Plan{}, fmt.Errorf("indexanalyzer: idx_C has %d labels but C has %d axes", len(runesC), len(lenC))
	}

	if err := checkUnique(runesA, "A"); err != nil {
		return Plan{}, err
	}
	if err := checkUnique(runesB, "B"); err != nil {
		return Plan{}, err
	}
	if err := checkUnique(runesC, "C"); err != nil {
		return Plan{}, err
	}

	members := make(map[rune]*membership)
	getOrCreate := func(r rune) *membership {
		m, ok := members[r]
		if !ok {
			m = &membership{}
			members[r] = m
		}
		return m
	}

	for axis, r := range runesA {
		m := getOrCreate(r)
		m.inA, m.axisA, m.lenA = true, axis, lenA[axis]
	}
	for axis, r := range runesB {
		m := getOrCreate(r)
		m.inB, m.axisB, m.lenB = true, axis, lenB[axis]
	}
	for axis, r := range runesC {
		m := getOrCreate(r)
		m.inC, m.axisC, m.lenC = true, axis, lenC[axis]
	}

	if err := checkLengths(members); err != nil {
		return Plan{}, err
	}
	for r, m := range members {
		count := 0
		if m.inA {
			count++
		}
		if m.inB {
			count++
		}
		if m.inC {
			count++
		}
		if count == 1 {
			return Plan{}, fmt.Errorf("%w: label %q", ErrUnmatchedIndex, r)
		}
	}

	var plan Plan
	plan.BatchSize, plan.MSize, plan.NSize, plan.KSize = 1, 1, 1, 1

	appendLabel := func(runes []rune, group *[]AxisTriple, size *int, want func(m *membership) bool) {
		for _, r := range runes {
			m := members[r]
			if !want(m) {
				continue
			}
			axisA, axisB, axisC := -1, -1, -1
			length := 0
			if m.inA {
				axisA, length = m.axisA, m.lenA
			}
			if m.inB {
				axisB, length = m.axisB, m.lenB
			}
			if m.inC {
				axisC, length = m.axisC, m.lenC
			}
			*group = append(*group, AxisTriple{AxisA: axisA, AxisB: axisB, AxisC: axisC, Length: length, Label: r})
			*size *= length
		}
	}

	appendLabel(runesC, &plan.Batch, &plan.BatchSize, func(m *membership) bool { return m.inA && m.inB && m.inC })
	appendLabel(runesA, &plan.M, &plan.MSize, func(m *membership) bool { return m.inA && m.inC && !m.inB })
	appendLabel(runesB, &plan.N, &plan.NSize, func(m *membership) bool { return m.inB && m.inC && !m.inA })
	appendLabel(runesA, &plan.K, &plan.KSize, func(m *membership) bool { return m.inA && m.inB && !m.inC })

	return plan, nil
}

func checkUnique(runes []rune, which string) error {
	seen := make(map[rune]bool, len(runes))
	for _, r := range runes {
		if seen[r] {
			return fmt.Errorf("%w: label %q repeated in idx_%s", ErrMalformedIndex, r, which)
		}
		seen[r] = true
	}
	return nil
}

func checkLengths(members map[rune]*membership) error {
	for r, m := range members {
		var lens []int
		if m.inA {
			lens = append(lens, m.lenA)
		}
		if m.inB {
			lens = append(lens, m.lenB)
		}
		if m.inC {
			lens = append(lens, m.lenC)
		}
		for _, l := range lens[1:] {
			if l != lens[0] {
				return fmt.Errorf("%w: label %q has lengths %v across tensors", ErrLengthMismatch, r, lens)
			}
		}
	}
	return nil
}
