package profiler

import (
	"github.com/pbnjay/memory"
	"github.com/shirou/gopsutil/v3/process"
)

// MemoryUsage is a memory snapshot of a process in bytes.
type MemoryUsage struct {
	Current uint64 // resident set size
	Peak    uint64 // high water mark, zero where the platform doesn't report it
}

// MemoryReader returns the memory usage of the process with the pid.
type MemoryReader func(pid int32) (MemoryUsage, error)

// ReadProcessMemory is the default MemoryReader.
func ReadProcessMemory(pid int32) (MemoryUsage, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return MemoryUsage{}, err
	}

	info, err := proc.MemoryInfo()
	if err != nil {
		return MemoryUsage{}, err
	}

	return MemoryUsage{Current: info.RSS, Peak: info.HWM}, nil
}

// TotalMemory returns the amount of system memory in bytes, zero if unknown.
func TotalMemory() uint64 {
	return memory.TotalMemory()
}

func megabytes(b uint64) float64 {
	return float64(b >> 20)
}
