package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	GeneID   ID
	SampleID ID
	RunID    ID
)

func (id GeneID) String() string   { return ID(id).String() }
func (id SampleID) String() string { return ID(id).String() }
func (id RunID) String() string    { return ID(id).String() }

// NewRunID creates an identifier for one simulation run
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseGeneID parses a string into GeneID
func ParseGeneID(s string) (GeneID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("gene ID cannot be empty")
	}
	return GeneID(s), nil
}

// ParseSampleID parses a string into SampleID
func ParseSampleID(s string) (SampleID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("sample ID cannot be empty")
	}
	return SampleID(s), nil
}

// GeneIDs converts plain strings into gene identifiers
func GeneIDs(names ...string) []GeneID {
	ids := make([]GeneID, len(names))
	for i, n := range names {
		ids[i] = GeneID(n)
	}
	return ids
}

// SampleIDs converts plain strings into sample identifiers
func SampleIDs(names ...string) []SampleID {
	ids := make([]SampleID, len(names))
	for i, n := range names {
		ids[i] = SampleID(n)
	}
	return ids
}
