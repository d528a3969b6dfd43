package dashboard

import "github.com/rileyhilliard/sysinsight/internal/api"

// Stats carries the supporting figures shown next to a metric value.
// Only the fields relevant to the metric are set.
type Stats struct {
	// CPU
	PhysicalCores int
	LogicalCores  int

	// Memory, and the selected disk partition
	UsedGB  float64
	TotalGB float64

	// Disk
	Mountpoint string
	Partitions []api.Partition
}

// ExtractCPU returns the overall CPU percent and core counts.
func ExtractCPU(cpu *api.CPU) (float64, Stats) {
	var stats Stats
	if cpu.Cores != nil {
		stats.PhysicalCores = cpu.Cores.Physical
		stats.LogicalCores = cpu.Cores.Logical
	}
	return cpu.Percent, stats
}

// ExtractMemory returns the virtual memory percent and used/total capacity.
func ExtractMemory(mem *api.Memory) (float64, Stats) {
	return mem.Virtual.Percent, Stats{
		UsedGB:  mem.Virtual.UsedGB,
		TotalGB: mem.Virtual.TotalGB,
	}
}

// SelectPartition picks the partition with the highest usage percent.
// Ties go to the first one listed. It returns false when there are none.
func SelectPartition(partitions []api.Partition) (api.Partition, bool) {
	if len(partitions) == 0 {
		return api.Partition{}, false
	}
	best := partitions[0]
	for _, p := range partitions[1:] {
		if p.Percent > best.Percent {
			best = p
		}
	}
	return best, true
}

// ExtractDisk returns the usage of the fullest partition together with the
// full per-partition breakdown. It returns false when no partitions were
// reported.
func ExtractDisk(disk *api.Disk) (float64, Stats, bool) {
	main, ok := SelectPartition(disk.Partitions)
	if !ok {
		return 0, Stats{}, false
	}
	parts := make([]api.Partition, len(disk.Partitions))
	copy(parts, disk.Partitions)
	return main.Percent, Stats{
		UsedGB:     main.UsedGB,
		TotalGB:    main.TotalGB,
		Mountpoint: main.Mountpoint,
		Partitions: parts,
	}, true
}

// Extract returns the representative scalar of metric from p. It returns
// false when the metric is absent, marked as failed, or has nothing to show.
func Extract(metric api.Metric, p *api.Payload) (float64, Stats, bool) {
	switch metric {
	case api.MetricCPU:
		if p.CPU == nil {
			return 0, Stats{}, false
		}
		v, s := ExtractCPU(p.CPU)
		return v, s, true
	case api.MetricMemory:
		if p.Memory == nil {
			return 0, Stats{}, false
		}
		v, s := ExtractMemory(p.Memory)
		return v, s, true
	case api.MetricDisk:
		if p.Disk == nil {
			return 0, Stats{}, false
		}
		return ExtractDisk(p.Disk)
	}
	return 0, Stats{}, false
}
