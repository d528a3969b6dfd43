package server

import (
	"context"
	"math"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Unit divisors for reported sizes.
const (
	GiB = 1024 * 1024 * 1024
	MiB = 1024 * 1024
)

// DefaultCPUSample is how long CPU usage is sampled per request.
const DefaultCPUSample = 500 * time.Millisecond

// Usage is the quick resource snapshot used by the readiness check.
type Usage struct {
	CPUPercent      float64
	MemoryPercent   float64
	RootDiskPercent float64
}

// Collector gathers host metrics in the API's wire shape.
type Collector interface {
	CPU(ctx context.Context) (*api.CPU, error)
	Memory(ctx context.Context) (*api.Memory, error)
	Disk(ctx context.Context) (*api.Disk, error)
	Usage(ctx context.Context) (Usage, error)
}

// SystemCollector reads metrics from the local host with gopsutil.
type SystemCollector struct {
	sample time.Duration
	now    func() time.Time
	times  func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
	log    logger.Logger
}

// NewSystemCollector creates a collector. A non-positive sample uses
// DefaultCPUSample.
func NewSystemCollector(sample time.Duration, log logger.Logger) *SystemCollector {
	if sample <= 0 {
		sample = DefaultCPUSample
	}
	if log == nil {
		log = logger.Noop()
	}
	return &SystemCollector{sample: sample, now: time.Now, times: cpu.TimesWithContext, log: log}
}

// CPU reports overall and per-core usage, core counts and frequency. Both
// usage figures come from the same pair of per-CPU time readings, taken one
// sample interval apart.
func (s *SystemCollector) CPU(ctx context.Context) (*api.CPU, error) {
	before, err := s.times(ctx, true)
	if err != nil {
		return nil, err
	}
	select {
	case <-time.After(s.sample):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	after, err := s.times(ctx, true)
	if err != nil {
		return nil, err
	}

	percent, perCore := cpuPercents(before, after)

	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		s.log.Warn("could not read physical core count: %v", err)
	}
	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		s.log.Warn("could not read logical core count: %v", err)
	}

	return &api.CPU{
		Percent:   percent,
		PerCore:   perCore,
		Cores:     &api.Cores{Physical: physical, Logical: logical},
		Frequency: s.frequency(ctx),
		Timestamp: api.FormatTimestamp(s.now()),
	}, nil
}

// frequency returns the current clock of the first CPU. gopsutil does not
// expose min and max on every platform; those stay nil when unknown.
func (s *SystemCollector) frequency(ctx context.Context) *api.Frequency {
	freq := &api.Frequency{}
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil || len(infos) == 0 || infos[0].Mhz == 0 {
		return freq
	}
	current := round2(infos[0].Mhz)
	freq.Current = &current
	return freq
}

// Memory reports virtual memory and swap usage in GiB.
func (s *SystemCollector) Memory(ctx context.Context) (*api.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := &api.Memory{
		Virtual: api.VirtualMemory{
			TotalGB:     toGiB(vm.Total),
			AvailableGB: toGiB(vm.Available),
			UsedGB:      toGiB(vm.Used),
			Percent:     round2(vm.UsedPercent),
		},
		Timestamp: api.FormatTimestamp(s.now()),
	}

	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		s.log.Warn("could not read swap usage: %v", err)
		return out, nil
	}
	out.Swap = &api.SwapMemory{
		TotalGB: toGiB(swap.Total),
		UsedGB:  toGiB(swap.Used),
		Percent: round2(swap.UsedPercent),
	}
	return out, nil
}

// Disk reports usage per physical partition and aggregate I/O counters.
// Partitions whose usage cannot be read are skipped.
func (s *SystemCollector) Disk(ctx context.Context) (*api.Disk, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	out := &api.Disk{
		Partitions: make([]api.Partition, 0, len(parts)),
		Timestamp:  api.FormatTimestamp(s.now()),
	}

	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			s.log.Debug("skipping partition %s: %v", p.Mountpoint, err)
			continue
		}
		out.Partitions = append(out.Partitions, api.Partition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			TotalGB:    toGiB(usage.Total),
			UsedGB:     toGiB(usage.Used),
			FreeGB:     toGiB(usage.Free),
			Percent:    round2(usage.UsedPercent),
		})
	}

	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil || len(counters) == 0 {
		return out, nil
	}
	var io api.IOStats
	var readBytes, writeBytes uint64
	for _, c := range counters {
		io.ReadCount += c.ReadCount
		io.WriteCount += c.WriteCount
		readBytes += c.ReadBytes
		writeBytes += c.WriteBytes
	}
	io.ReadMB = round2(float64(readBytes) / MiB)
	io.WriteMB = round2(float64(writeBytes) / MiB)
	out.IOStats = &io

	return out, nil
}

// Usage samples cpu, memory and root filesystem usage.
func (s *SystemCollector) Usage(ctx context.Context) (Usage, error) {
	cpuPct, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false)
	if err != nil {
		return Usage{}, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, err
	}
	root, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return Usage{}, err
	}

	var c float64
	if len(cpuPct) > 0 {
		c = cpuPct[0]
	}
	return Usage{
		CPUPercent:      c,
		MemoryPercent:   vm.UsedPercent,
		RootDiskPercent: root.UsedPercent,
	}, nil
}

// cpuPercents turns two per-CPU time readings into overall and per-core busy
// percentages over the same window. Cores missing from either reading are
// ignored.
func cpuPercents(before, after []cpu.TimesStat) (float64, []float64) {
	n := min(len(before), len(after))
	perCore := make([]float64, n)
	var busy, total float64
	for i := 0; i < n; i++ {
		b, t := busyDelta(before[i], after[i])
		perCore[i] = round2(busyPercent(b, t))
		busy += b
		total += t
	}
	return round2(busyPercent(busy, total)), perCore
}

// busyDelta returns busy and total CPU seconds elapsed between two readings.
// Guest time is already counted in User, and idle includes iowait.
func busyDelta(before, after cpu.TimesStat) (busy, total float64) {
	t1 := cpuTotal(before)
	t2 := cpuTotal(after)
	b1 := t1 - before.Idle - before.Iowait
	b2 := t2 - after.Idle - after.Iowait
	return b2 - b1, t2 - t1
}

func cpuTotal(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

func busyPercent(busy, total float64) float64 {
	switch {
	case busy <= 0:
		return 0
	case total <= 0:
		return 100
	}
	return math.Min(100, math.Max(0, busy/total*100))
}

func toGiB(b uint64) float64 {
	return round2(float64(b) / GiB)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
