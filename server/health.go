package server

import (
	"math"
	"runtime"
	"time"

	"github.com/cshum/thumborurl"
)

var start = time.Now()

const mb = 1024 * 1024

// HealthStats process stats reported by /health
type HealthStats struct {
	Version         string  `json:"version"`
	Uptime          int64   `json:"uptime"`
	Goroutines      int     `json:"goroutines"`
	NumberOfCPUs    int     `json:"number_of_cpus"`
	GCCycles        uint32  `json:"gc_cycles"`
	AllocatedMemory float64 `json:"allocated_memory"`
	HeapAllocated   float64 `json:"heap_allocated"`
	ObjectsInUse    uint64  `json:"objects_in_use"`
}

func GetHealthStats() *HealthStats {
	mem := &runtime.MemStats{}
	runtime.ReadMemStats(mem)
	return &HealthStats{
		Version:         thumborurl.Version,
		Uptime:          int64(time.Since(start).Seconds()),
		Goroutines:      runtime.NumGoroutine(),
		NumberOfCPUs:    runtime.NumCPU(),
		GCCycles:        mem.NumGC,
		AllocatedMemory: toMegaBytes(mem.Alloc),
		HeapAllocated:   toMegaBytes(mem.HeapAlloc),
		ObjectsInUse:    mem.Mallocs - mem.Frees,
	}
}

// toMegaBytes rounded to 2 decimal places
func toMegaBytes(bytes uint64) float64 {
	return math.Round(float64(bytes)/mb*100) / 100
}
