package benchmark

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// MemorySampler reports the resident memory of the current process in MB.
type MemorySampler interface {
	SampleResidentMB() (float64, error)
}

// MemorySamplerFunc adapts a function to MemorySampler.
type MemorySamplerFunc func() (float64, error)

func (f MemorySamplerFunc) SampleResidentMB() (float64, error) { return f() }

// ProcessMemorySampler reads the RSS of this process from the OS.
type ProcessMemorySampler struct {
	proc *process.Process
}

// NewProcessMemorySampler creates a sampler bound to the current PID.
func NewProcessMemorySampler() (*ProcessMemorySampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open current process: %w", err)
	}
	return &ProcessMemorySampler{proc: p}, nil
}

// SampleResidentMB implements MemorySampler.
func (s *ProcessMemorySampler) SampleResidentMB() (float64, error) {
	info, err := s.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("failed to read process memory: %w", err)
	}
	return float64(info.RSS) / bytesPerMB, nil
}
