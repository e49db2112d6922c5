package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound              = errors.New("resource not found")
	ErrNonExistingExpression = fmt.Errorf("%w: no expression satisfies the requested fold change", ErrNotFound)
	ErrGeneNotFound          = fmt.Errorf("%w: gene", ErrNotFound)

	// Interval errors
	ErrInvalidFoldChange = errors.New("invalid fold change")
	ErrInvalidNoise      = errors.New("invalid standard deviation for noise")

	// Index errors
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrDuplicateIndex     = errors.New("indices must be unique")
	ErrOverlappingIndex   = errors.New("group indices must not overlap")
	ErrInvalidSampleCount = errors.New("invalid number of samples")

	// Structural errors
	ErrMismatchedProfile = errors.New("mismatched expression profiles")
	ErrLengthMismatch    = errors.New("expression length does not match number of samples")
	ErrDuplicateSample   = errors.New("duplicate sample names")

	// Input file errors
	ErrInvalidContrast       = errors.New("invalid contrast")
	ErrInvalidExpressionFile = errors.New("invalid expression file")
	ErrInvalidFoldChangeFile = errors.New("invalid fold change file")
	ErrInvalidGenesetFile    = errors.New("invalid gene set file")

	ErrUnknownCriterion = errors.New("unknown differential expression criterion")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewFoldChangeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidFoldChange, reason)
}

func NewIndexError(index, size int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, size)
}

func NewGeneNotFoundError(gene GeneID) error {
	return fmt.Errorf("%w: %s", ErrGeneNotFound, gene)
}

// Error checking helpers
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsIndexError(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrDuplicateIndex) ||
		errors.Is(err, ErrOverlappingIndex)
}

func IsInputFileError(err error) bool {
	return errors.Is(err, ErrInvalidContrast) ||
		errors.Is(err, ErrInvalidExpressionFile) ||
		errors.Is(err, ErrInvalidFoldChangeFile) ||
		errors.Is(err, ErrInvalidGenesetFile)
}
