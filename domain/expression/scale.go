package expression

import "fmt"

// Scale selects how a fold change combines with expression values.
type Scale int

const (
	// Log treats values as log-transformed: fold changes add.
	Log Scale = iota
	// Linear treats values as raw intensities: fold changes multiply.
	Linear
)

// ParseScale maps "log" or "linear" to a Scale.
func ParseScale(s string) (Scale, error) {
	switch s {
	case "log", "":
		return Log, nil
	case "linear":
		return Linear, nil
	}
	return Log, fmt.Errorf("unknown scale %q", s)
}

func (s Scale) String() string {
	if s == Linear {
		return "linear"
	}
	return "log"
}

// Apply combines a single value with a shift.
func (s Scale) Apply(v, shift float64) float64 {
	if s == Linear {
		return v * shift
	}
	return v + shift
}

// Combine returns a new vector with every value combined with shift.
func (s Scale) Combine(values []float64, shift float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Apply(v, shift)
	}
	return out
}

// CombineEach combines values elementwise with shifts. Both must have equal length.
func (s Scale) CombineEach(values, shifts []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Apply(v, shifts[i])
	}
	return out
}

// Difference inverts Apply: the shift that takes b to a.
func (s Scale) Difference(a, b float64) float64 {
	if s == Linear {
		return a / b
	}
	return a - b
}
