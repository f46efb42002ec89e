package contract

import (
	"errors"

	"github.com/hyperifyio/tcontract/config"
	"github.com/hyperifyio/tcontract/indexanalyzer"
)

// Errors re-exported or defined per spec §7's taxonomy. MalformedIndex,
// UnmatchedIndex, and LengthMismatch are owned by indexanalyzer and
// re-exported here rather than redeclared, mirroring the teacher's
// pattern of a leaf package owning its sentinel and a higher package
// (bitnet/errors) re-exporting it for callers that only import the
// driver.
var (
	ErrMalformedIndex = indexanalyzer.ErrMalformedIndex
	ErrUnmatchedIndex = indexanalyzer.ErrUnmatchedIndex
	ErrLengthMismatch = indexanalyzer.ErrLengthMismatch
	ErrConfigError    = config.ErrConfigError

	// ErrShapeError is returned when a tensor's rank does not match its
	// index string's length.
	ErrShapeError = errors.New("contract: rank does not match index-string length")
	// ErrAliasError is returned when C's storage overlaps A's or B's.
	ErrAliasError = errors.New("contract: C aliases A or B")
	// ErrOutOfMemory is returned when allocating packed scratch fails.
	ErrOutOfMemory = errors.New("contract: scratch panel allocation failed")
	// ErrUnsupportedImpl is returned for a recognized but unimplemented
	// TBLIS_IMPL selection (currently "blas"; see DESIGN.md).
	ErrUnsupportedImpl = errors.New("contract: unsupported implementation")
)
