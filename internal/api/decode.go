package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/tidwall/gjson"
)

// epochMillisCutoff separates epoch seconds from epoch milliseconds.
// 1e12 seconds is in the year 33658; 1e12 milliseconds is 2001.
const epochMillisCutoff = 1e12

// naiveLayouts are timestamp layouts without a zone, read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Decode parses a metrics payload.
//
// Whole-payload problems (invalid JSON, a non-object root, an unreadable
// timestamp, or a metric section that is not an object) return an ErrDecode
// error. Problems confined to one metric (an upstream error marker, or a
// missing scalar) leave that section nil and record an ErrMetric error in
// Payload.Failures; sibling metrics are unaffected.
//
// When the payload has no timestamp, received is used instead.
func Decode(body []byte, received time.Time) (*Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.ErrDecode,
			"Metrics payload is not valid JSON",
			"Check that the API base URL points at the metrics API")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New(errors.ErrDecode,
			"Metrics payload is not a JSON object",
			"Check that the API base URL points at the metrics API")
	}

	p := &Payload{
		Timestamp: received,
		Failures:  make(map[Metric]error),
	}

	if ts := root.Get("timestamp"); ts.Exists() && ts.Type != gjson.Null {
		parsed, err := ParseTimestamp(ts)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrDecode,
				"Metrics payload has an unreadable timestamp", "")
		}
		p.Timestamp = parsed
	}

	for _, metric := range Metrics {
		section, err := metricSection(root, metric)
		if err != nil {
			return nil, err
		}
		if !section.Exists() {
			continue
		}
		if msg, failed := errorMarker(section); failed {
			p.Failures[metric] = errors.WrapWithCode(fmt.Errorf("%s", msg), errors.ErrMetric,
				fmt.Sprintf("%s collection failed upstream", metric), "")
			continue
		}

		switch metric {
		case MetricCPU:
			p.CPU, err = decodeCPU(section)
		case MetricMemory:
			p.Memory, err = decodeMemory(section)
		case MetricDisk:
			p.Disk, err = decodeDisk(section)
		}
		if err != nil {
			p.Failures[metric] = err
		}
	}

	if alerts := root.Get("alerts"); alerts.IsObject() {
		alerts.ForEach(func(key, value gjson.Result) bool {
			p.Alerts = append(p.Alerts, Alert{
				Metric: Metric(key.String()),
				Level:  Level(strings.ToLower(value.String())),
			})
			return true
		})
	}

	return p, nil
}

// metricSection returns the section for metric, or an empty result when it
// is absent or null.
func metricSection(root gjson.Result, metric Metric) (gjson.Result, error) {
	section := root.Get(string(metric))
	if !section.Exists() || section.Type == gjson.Null {
		return gjson.Result{}, nil
	}
	if !section.IsObject() {
		return gjson.Result{}, errors.New(errors.ErrDecode,
			fmt.Sprintf("Metrics payload field %q is not an object", metric), "")
	}
	return section, nil
}

// errorMarker reports whether a section carries a truthy "error" field.
func errorMarker(section gjson.Result) (string, bool) {
	marker := section.Get("error")
	if !marker.Exists() {
		return "", false
	}
	switch marker.Type {
	case gjson.Null, gjson.False:
		return "", false
	case gjson.String:
		return marker.Str, marker.Str != ""
	case gjson.Number:
		return marker.Raw, marker.Num != 0
	default:
		return marker.Raw, true
	}
}

func malformed(metric Metric, field string) error {
	return errors.New(errors.ErrMetric,
		fmt.Sprintf("%s section is missing numeric %q", metric, field), "")
}

func decodeCPU(section gjson.Result) (*CPU, error) {
	percent := section.Get("percent")
	if percent.Type != gjson.Number {
		return nil, malformed(MetricCPU, "percent")
	}

	cpu := &CPU{
		Percent:   percent.Num,
		Timestamp: section.Get("timestamp").String(),
	}

	if cores := section.Get("cores"); cores.IsObject() {
		cpu.Cores = &Cores{
			Physical: int(cores.Get("physical").Int()),
			Logical:  int(cores.Get("logical").Int()),
		}
	}

	if perCore := section.Get("per_core"); perCore.IsArray() {
		for _, v := range perCore.Array() {
			cpu.PerCore = append(cpu.PerCore, v.Float())
		}
	}

	if freq := section.Get("frequency"); freq.IsObject() {
		cpu.Frequency = &Frequency{
			Current: optionalFloat(freq.Get("current")),
			Min:     optionalFloat(freq.Get("min")),
			Max:     optionalFloat(freq.Get("max")),
		}
	}

	return cpu, nil
}

func decodeMemory(section gjson.Result) (*Memory, error) {
	virtual := section.Get("virtual")
	percent := virtual.Get("percent")
	if !virtual.IsObject() || percent.Type != gjson.Number {
		return nil, malformed(MetricMemory, "virtual.percent")
	}

	mem := &Memory{
		Virtual: VirtualMemory{
			TotalGB:     virtual.Get("total_gb").Float(),
			AvailableGB: virtual.Get("available_gb").Float(),
			UsedGB:      virtual.Get("used_gb").Float(),
			Percent:     percent.Num,
		},
		Timestamp: section.Get("timestamp").String(),
	}

	if swap := section.Get("swap"); swap.IsObject() {
		mem.Swap = &SwapMemory{
			TotalGB: swap.Get("total_gb").Float(),
			UsedGB:  swap.Get("used_gb").Float(),
			Percent: swap.Get("percent").Float(),
		}
	}

	return mem, nil
}

func decodeDisk(section gjson.Result) (*Disk, error) {
	partitions := section.Get("partitions")
	if partitions.Exists() && !partitions.IsArray() {
		return nil, malformed(MetricDisk, "partitions")
	}

	disk := &Disk{
		Partitions: []Partition{},
		Timestamp:  section.Get("timestamp").String(),
	}

	for _, p := range partitions.Array() {
		percent := p.Get("percent")
		if !p.IsObject() || percent.Type != gjson.Number {
			// A partition without usage cannot be charted.
			continue
		}
		disk.Partitions = append(disk.Partitions, Partition{
			Device:     p.Get("device").String(),
			Mountpoint: p.Get("mountpoint").String(),
			Fstype:     p.Get("fstype").String(),
			TotalGB:    p.Get("total_gb").Float(),
			UsedGB:     p.Get("used_gb").Float(),
			FreeGB:     p.Get("free_gb").Float(),
			Percent:    percent.Num,
		})
	}

	if io := section.Get("io_stats"); io.IsObject() {
		disk.IOStats = &IOStats{
			ReadCount:  io.Get("read_count").Uint(),
			WriteCount: io.Get("write_count").Uint(),
			ReadMB:     io.Get("read_mb").Float(),
			WriteMB:    io.Get("write_mb").Float(),
		}
	}

	return disk, nil
}

func optionalFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Num
	return &v
}

// ParseTimestamp reads an ISO-8601 string (with or without zone; zoneless
// values are UTC) or an epoch number in seconds or milliseconds.
func ParseTimestamp(r gjson.Result) (time.Time, error) {
	switch r.Type {
	case gjson.Number:
		return fromEpoch(r.Num), nil
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		for _, layout := range naiveLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, nil
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(f), nil
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	default:
		return time.Time{}, fmt.Errorf("timestamp must be a string or number, got %s", r.Type)
	}
}

func fromEpoch(v float64) time.Time {
	if math.Abs(v) >= epochMillisCutoff {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
