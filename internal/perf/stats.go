package perf

import (
	"sort"
	"sync"
	"time"

	"github.com/ibs-source/es-producer/pkg/jsonfast"
)

const (
	defaultReportInterval = 5 * time.Second
	maxLatencySamples     = 500000
)

// Snapshot is the final statistics of one run
type Snapshot struct {
	Topic         string
	Records       int64
	Errors        int64
	Bytes         int64
	Elapsed       time.Duration
	AvgLatency    time.Duration
	MaxLatency    time.Duration
	Percentiles   [4]time.Duration // 50th, 95th, 99th, 99.9th
	FinishedAt    time.Time
	RecordsPerSec float64
	MBPerSec      float64
}

type window struct {
	start        time.Time
	count        int64
	bytes        int64
	totalLatency time.Duration
	maxLatency   time.Duration
}

func (w *window) add(latency time.Duration, bytes int) {
	w.count++
	w.bytes += int64(bytes)
	w.totalLatency += latency
	if latency > w.maxLatency {
		w.maxLatency = latency
	}
}

// stats accumulates per-record latency and reports a window line every
// interval. Latencies are sampled so at most maxLatencySamples are kept.
// It is safe for concurrent use by delivery callbacks.
type stats struct {
	mu       sync.Mutex
	topic    string
	now      func() time.Time
	interval time.Duration
	report   func(format string, args ...interface{})

	start     time.Time
	total     window
	current   window
	errors    int64
	sampling  int64
	iteration int64
	samples   []time.Duration
}

func newStats(topic string, numRecords int64, interval time.Duration, now func() time.Time,
	report func(format string, args ...interface{})) *stats {
	sampling := int64(1)
	if numRecords > maxLatencySamples {
		sampling = numRecords / maxLatencySamples
	}
	capacity := numRecords / sampling
	if capacity > maxLatencySamples {
		capacity = maxLatencySamples
	}
	start := now()
	return &stats{
		topic:    topic,
		now:      now,
		interval: interval,
		report:   report,
		start:    start,
		total:    window{start: start},
		current:  window{start: start},
		sampling: sampling,
		samples:  make([]time.Duration, 0, capacity),
	}
}

// record accounts one send. Failed sends count as errors only.
func (s *stats) record(latency time.Duration, bytes int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.iteration++ }()
	if err != nil {
		s.errors++
		return
	}
	s.total.add(latency, bytes)
	s.current.add(latency, bytes)
	if s.iteration%s.sampling == 0 && len(s.samples) < cap(s.samples) {
		s.samples = append(s.samples, latency)
	}

	if now := s.now(); now.Sub(s.current.start) >= s.interval {
		s.printWindow(now)
		s.current = window{start: now}
	}
}

func (s *stats) printWindow(now time.Time) {
	elapsed := now.Sub(s.current.start)
	rps, mbps := rates(s.current.count, s.current.bytes, elapsed)
	s.report("%d records sent, %.1f records/sec (%.2f MB/sec), %.1f ms avg latency, %.1f ms max latency.\n",
		s.current.count, rps, mbps,
		millis(average(s.current.totalLatency, s.current.count)), millis(s.current.maxLatency))
}

// snapshot computes the final statistics
func (s *stats) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	finished := s.now()
	elapsed := finished.Sub(s.start)
	rps, mbps := rates(s.total.count, s.total.bytes, elapsed)
	snap := Snapshot{
		Topic:         s.topic,
		Records:       s.total.count,
		Errors:        s.errors,
		Bytes:         s.total.bytes,
		Elapsed:       elapsed,
		AvgLatency:    average(s.total.totalLatency, s.total.count),
		MaxLatency:    s.total.maxLatency,
		FinishedAt:    finished,
		RecordsPerSec: rps,
		MBPerSec:      mbps,
	}
	snap.Percentiles = percentiles(s.samples, 0.5, 0.95, 0.99, 0.999)
	return snap
}

// printTotal prints the summary line for the whole run
func (s *stats) printTotal(snap Snapshot) {
	s.report("%d records sent, %.1f records/sec (%.2f MB/sec), %.2f ms avg latency, %.2f ms max latency, "+
		"%d ms 50th, %d ms 95th, %d ms 99th, %d ms 99.9th.\n",
		snap.Records, snap.RecordsPerSec, snap.MBPerSec,
		millis(snap.AvgLatency), millis(snap.MaxLatency),
		snap.Percentiles[0].Milliseconds(), snap.Percentiles[1].Milliseconds(),
		snap.Percentiles[2].Milliseconds(), snap.Percentiles[3].Milliseconds())
}

// MetricsJSON renders the snapshot as a single JSON object
func (snap Snapshot) MetricsJSON() []byte {
	b := jsonfast.New(512)
	b.BeginObject()
	b.AddStringField("topic", snap.Topic)
	b.AddInt64Field("records", snap.Records)
	b.AddInt64Field("errors", snap.Errors)
	b.AddInt64Field("bytes", snap.Bytes)
	b.AddInt64Field("elapsed_ms", snap.Elapsed.Milliseconds())
	b.AddFloatField("records_per_sec", snap.RecordsPerSec, 2)
	b.AddFloatField("mb_per_sec", snap.MBPerSec, 4)
	b.AddFloatField("avg_latency_ms", millis(snap.AvgLatency), 3)
	b.AddFloatField("max_latency_ms", millis(snap.MaxLatency), 3)
	b.AddInt64Field("p50_ms", snap.Percentiles[0].Milliseconds())
	b.AddInt64Field("p95_ms", snap.Percentiles[1].Milliseconds())
	b.AddInt64Field("p99_ms", snap.Percentiles[2].Milliseconds())
	b.AddInt64Field("p999_ms", snap.Percentiles[3].Milliseconds())
	b.AddTimeRFC3339Field("finished_at", snap.FinishedAt)
	b.EndObject()
	return b.Bytes()
}

func rates(count, bytes int64, elapsed time.Duration) (recordsPerSec, mbPerSec float64) {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0, 0
	}
	return float64(count) / secs, float64(bytes) / secs / (1024 * 1024)
}

func average(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func percentiles(samples []time.Duration, ps ...float64) [4]time.Duration {
	var out [4]time.Duration
	if len(samples) == 0 {
		return out
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, p := range ps {
		if i >= len(out) {
			break
		}
		idx := int(p * float64(len(sorted)))
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		out[i] = sorted[idx]
	}
	return out
}
