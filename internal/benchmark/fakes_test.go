package benchmark

import (
	"errors"
	"time"

	"matbench/internal/matrix"
)

// fakeClock advances by step on every read.
type fakeClock struct {
	now   time.Time
	step  time.Duration
	reads int
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	c.reads++
	return t
}

// fakeMemory returns values in order, repeating the last one.
type fakeMemory struct {
	values []float64
	calls  int
	err    error
}

func (m *fakeMemory) SampleResidentMB() (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	i := m.calls
	if i >= len(m.values) {
		i = len(m.values) - 1
	}
	m.calls++
	return m.values[i], nil
}

type countingGenerator struct {
	inner *matrix.Generator
	sizes []int
}

func (g *countingGenerator) Generate(n int) (matrix.Matrix, matrix.Matrix, error) {
	g.sizes = append(g.sizes, n)
	return g.inner.Generate(n)
}

type failingMultiplier struct {
	failOnCall int
	calls      int
	err        error
}

func (m *failingMultiplier) Multiply(a, b matrix.Matrix) (matrix.Matrix, error) {
	m.calls++
	if m.calls == m.failOnCall {
		return nil, m.err
	}
	return matrix.Multiply(a, b)
}

type memorySink struct {
	samples []Sample
	failAt  int
}

var errSinkFull = errors.New("sink full")

func (s *memorySink) Record(sample Sample) error {
	if s.failAt > 0 && len(s.samples)+1 == s.failAt {
		return errSinkFull
	}
	s.samples = append(s.samples, sample)
	return nil
}
