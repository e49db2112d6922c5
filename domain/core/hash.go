package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// CohortHash fingerprints the identity and values of a cohort
type CohortHash Hash

func (h CohortHash) String() string { return Hash(h).String() }

// ComputeCohortHash hashes gene IDs, sample IDs and row values in order.
// Two cohorts share a hash only if they are bit-identical.
func ComputeCohortHash(genes []GeneID, samples []SampleID, rows [][]float64) CohortHash {
	h := sha256.New()
	var buf [8]byte
	for _, g := range genes {
		h.Write([]byte(g))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, s := range samples {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return CohortHash(hex.EncodeToString(h.Sum(nil)))
}
