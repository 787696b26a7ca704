package benchmark

import (
	"math"
	"strconv"
)

// Header is the first row of the CSV output.
var Header = []string{"MatrixSize", "Run", "TimeSeconds", "RealMemoryMB"}

// Precision is the number of fractional digits kept for reported values.
const Precision = 5

// Sample is one (size, run) measurement.
type Sample struct {
	MatrixSize   int     `json:"matrix_size"`
	Run          int     `json:"run"`
	TimeSeconds  float64 `json:"time_seconds"`
	RealMemoryMB float64 `json:"real_memory_mb"`
}

// Row returns the sample formatted as a CSV record.
func (s Sample) Row() []string {
	return []string{
		strconv.Itoa(s.MatrixSize),
		strconv.Itoa(s.Run),
		FormatValue(s.TimeSeconds),
		FormatValue(s.RealMemoryMB),
	}
}

// Average summarizes the samples recorded for one matrix size.
type Average struct {
	MatrixSize      int     `json:"matrix_size"`
	Runs            int     `json:"runs"`
	AvgTimeSeconds  float64 `json:"avg_time_seconds"`
	AvgRealMemoryMB float64 `json:"avg_real_memory_mb"`
}

// Result groups samples by matrix size, keeping the order in which sizes
// were first seen.
type Result struct {
	Sizes   []int
	Samples map[int][]Sample
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{Samples: make(map[int][]Sample)}
}

// Add appends s to the collection for its size.
func (r *Result) Add(s Sample) {
	if _, ok := r.Samples[s.MatrixSize]; !ok {
		r.Sizes = append(r.Sizes, s.MatrixSize)
	}
	r.Samples[s.MatrixSize] = append(r.Samples[s.MatrixSize], s)
}

// Len returns the total number of samples.
func (r *Result) Len() int {
	n := 0
	for _, samples := range r.Samples {
		n += len(samples)
	}
	return n
}

// All returns every sample in production order.
func (r *Result) All() []Sample {
	all := make([]Sample, 0, r.Len())
	for _, size := range r.Sizes {
		all = append(all, r.Samples[size]...)
	}
	return all
}

// Averages returns the mean time and memory per size, rounded to Precision.
func (r *Result) Averages() []Average {
	averages := make([]Average, 0, len(r.Sizes))
	for _, size := range r.Sizes {
		samples := r.Samples[size]
		if len(samples) == 0 {
			continue
		}
		var totalTime, totalMem float64
		for _, s := range samples {
			totalTime += s.TimeSeconds
			totalMem += s.RealMemoryMB
		}
		n := float64(len(samples))
		averages = append(averages, Average{
			MatrixSize:      size,
			Runs:            len(samples),
			AvgTimeSeconds:  Round(totalTime / n),
			AvgRealMemoryMB: Round(totalMem / n),
		})
	}
	return averages
}

// Round rounds v to Precision fractional digits.
func Round(v float64) float64 {
	const scale = 1e5
	return math.Round(v*scale) / scale
}

// FormatValue renders v with at most Precision fractional digits.
func FormatValue(v float64) string {
	return strconv.FormatFloat(Round(v), 'f', -1, 64)
}
