package engine

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/logger"
)

const (
	maxAutoWorkers  = 8
	fallbackWorkers = 4
	gib             = 1 << 30
)

// ResourceProbe 读取系统资源
type ResourceProbe interface {
	LogicalCPUs() (int, error)
	AvailableMemory() (uint64, error)
}

type systemProbe struct{}

func (systemProbe) LogicalCPUs() (int, error) {
	return cpu.Counts(true)
}

func (systemProbe) AvailableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// EstimateWorkers 根据本机资源估算 worker 数，requested > 0 时直接返回
func EstimateWorkers(requested int) int {
	return estimateWorkers(requested, systemProbe{})
}

func estimateWorkers(requested int, probe ResourceProbe) int {
	if requested > 0 {
		return requested
	}

	cpus, err := probe.LogicalCPUs()
	if err != nil || cpus <= 0 {
		cpus = fallbackWorkers
	}

	available, err := probe.AvailableMemory()
	if err != nil {
		logger.Log.Warnf("无法读取系统资源，使用 %d 个 worker: %v", fallbackWorkers, err)
		return fallbackWorkers
	}
	availableGiB := float64(available) / gib

	workers := min(cpus, maxAutoWorkers)
	switch {
	case availableGiB < 2:
		workers = min(workers, 2)
	case availableGiB < 4:
		workers = min(workers, 4)
	}

	logger.Log.Infof("系统资源: %d CPUs, %.1fGB 可用 -> %d workers", cpus, availableGiB, workers)
	return workers
}
