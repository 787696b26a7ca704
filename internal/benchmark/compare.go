package benchmark

import "fmt"

type Comparison struct {
	MatrixSize int
	TimeDiff   float64 // Percentage change
	MemoryDiff float64 // Percentage change
	Prev       Average
	Curr       Average
}

// Compare matches averages by matrix size.
// It returns a comparison for every size present in both, in curr order.
func Compare(prev, curr []Average) []Comparison {
	prevMap := make(map[int]Average)
	for _, a := range prev {
		prevMap[a.MatrixSize] = a
	}

	var comparisons []Comparison
	for _, c := range curr {
		p, ok := prevMap[c.MatrixSize]
		if !ok {
			continue
		}
		comp := Comparison{
			MatrixSize: c.MatrixSize,
			Prev:       p,
			Curr:       c,
		}
		if p.AvgTimeSeconds > 0 {
			comp.TimeDiff = (c.AvgTimeSeconds - p.AvgTimeSeconds) / p.AvgTimeSeconds * 100
		}
		if p.AvgRealMemoryMB > 0 {
			comp.MemoryDiff = (c.AvgRealMemoryMB - p.AvgRealMemoryMB) / p.AvgRealMemoryMB * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

// Regressed reports whether the time change exceeds threshold percent.
func (c Comparison) Regressed(threshold float64) bool {
	return c.TimeDiff > threshold
}

func (c Comparison) String() string {
	return fmt.Sprintf("%dx%d: %+.2f%% time, %+.2f%% memory", c.MatrixSize, c.MatrixSize, c.TimeDiff, c.MemoryDiff)
}
