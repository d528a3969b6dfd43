package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rileyhilliard/sysinsight/internal/api"
)

// allMetrics is the body of /api/metrics/all. A section that failed to
// collect holds an api.MetricError instead of its data.
type allMetrics struct {
	CPU       interface{} `json:"cpu"`
	Memory    interface{} `json:"memory"`
	Disk      interface{} `json:"disk"`
	Timestamp string      `json:"timestamp"`
	Alerts    *api.Alerts `json:"alerts,omitempty"`
}

func (s *Server) getCPU(c *gin.Context) {
	data, err := s.collectCPU(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect CPU metrics"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) getMemory(c *gin.Context) {
	data, err := s.collectMemory(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect memory metrics"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) getDisk(c *gin.Context) {
	data, err := s.collectDisk(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect disk metrics"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// getAll collects every metric concurrently. One failing metric does not
// fail the response.
func (s *Server) getAll(c *gin.Context) {
	var (
		wg      sync.WaitGroup
		cpu     *api.CPU
		mem     *api.Memory
		disk    *api.Disk
		cpuErr  error
		memErr  error
		diskErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		cpu, cpuErr = s.collectCPU(c)
	}()
	go func() {
		defer wg.Done()
		mem, memErr = s.collectMemory(c)
	}()
	go func() {
		defer wg.Done()
		disk, diskErr = s.collectDisk(c)
	}()
	wg.Wait()

	ts := api.FormatTimestamp(s.now())
	body := allMetrics{
		CPU:       section(cpu, cpuErr, ts),
		Memory:    section(mem, memErr, ts),
		Disk:      section(disk, diskErr, ts),
		Timestamp: ts,
	}

	if s.enableAlerts {
		alerts := EvaluateThresholds(cpu, mem, disk, s.thresholds)
		body.Alerts = &alerts
	}

	c.JSON(http.StatusOK, body)
}

// section returns data, or an error marker when collection failed.
func section[T any](data *T, err error, ts string) interface{} {
	if err != nil {
		return api.MetricError{Error: err.Error(), Timestamp: ts}
	}
	return data
}

func (s *Server) collectCPU(c *gin.Context) (*api.CPU, error) {
	data, err := s.collector.CPU(c.Request.Context())
	if err != nil {
		s.collectFailed(api.MetricCPU, err)
		return nil, err
	}
	s.telemetry.usagePercent.WithLabelValues(string(api.MetricCPU)).Set(data.Percent)
	return data, nil
}

func (s *Server) collectMemory(c *gin.Context) (*api.Memory, error) {
	data, err := s.collector.Memory(c.Request.Context())
	if err != nil {
		s.collectFailed(api.MetricMemory, err)
		return nil, err
	}
	s.telemetry.usagePercent.WithLabelValues(string(api.MetricMemory)).Set(data.Virtual.Percent)
	return data, nil
}

func (s *Server) collectDisk(c *gin.Context) (*api.Disk, error) {
	data, err := s.collector.Disk(c.Request.Context())
	if err != nil {
		s.collectFailed(api.MetricDisk, err)
		return nil, err
	}
	s.telemetry.usagePercent.WithLabelValues(string(api.MetricDisk)).Set(maxPartitionPercent(data))
	return data, nil
}

func (s *Server) collectFailed(metric api.Metric, err error) {
	s.telemetry.collectErrors.WithLabelValues(string(metric)).Inc()
	s.log.Error("%s metrics error: %v", metric, err)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": api.FormatTimestamp(s.now()),
		"service":   ServiceName,
		"version":   s.version,
	})
}

// ready reports 503 when any of cpu, memory or root disk usage is at or
// above the ready limit.
func (s *Server) ready(c *gin.Context) {
	ts := api.FormatTimestamp(s.now())

	u, err := s.collector.Usage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "error",
			"error":     err.Error(),
			"timestamp": ts,
		})
		return
	}

	checks := gin.H{
		"cpu":    u.CPUPercent < s.readyLimit,
		"memory": u.MemoryPercent < s.readyLimit,
		"disk":   u.RootDiskPercent < s.readyLimit,
	}
	isReady := u.CPUPercent < s.readyLimit && u.MemoryPercent < s.readyLimit && u.RootDiskPercent < s.readyLimit

	status, code := "ready", http.StatusOK
	if !isReady {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": ts,
		"checks":    checks,
		"metrics": gin.H{
			"cpu_percent":    round2(u.CPUPercent),
			"memory_percent": round2(u.MemoryPercent),
			"disk_percent":   round2(u.RootDiskPercent),
		},
	})
}
