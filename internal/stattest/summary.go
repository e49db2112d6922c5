package stattest

import (
	"github.com/montanaflynn/stats"
)

// Summary describes one expression vector.
type Summary struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes descriptive statistics. StdDev is the sample standard
// deviation and is zero for a single value.
func Summarize(values []float64) (Summary, error) {
	data := stats.Float64Data(values)

	mean, err := data.Mean()
	if err != nil {
		return Summary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, err
	}
	min, err := data.Min()
	if err != nil {
		return Summary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return Summary{}, err
	}

	var sd float64
	if len(values) > 1 {
		sd, err = data.StandardDeviationSample()
		if err != nil {
			return Summary{}, err
		}
	}

	return Summary{
		N:      len(values),
		Mean:   mean,
		Median: median,
		StdDev: sd,
		Min:    min,
		Max:    max,
	}, nil
}
