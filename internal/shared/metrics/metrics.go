package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	verifyHitTotal      atomic.Uint64
	verifyMissTotal     atomic.Uint64
	uploadTotal         atomic.Uint64
	uploadConflictTotal atomic.Uint64
	analyzeTotal        atomic.Uint64
	analyzeFailedTotal  atomic.Uint64

	analyzeDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncVerifyHit increments the verified-lookup counter.
func IncVerifyHit() {
	verifyHitTotal.Add(1)
}

// IncVerifyMiss increments the unverified-lookup counter.
func IncVerifyMiss() {
	verifyMissTotal.Add(1)
}

// IncUpload increments the successful-upload counter.
func IncUpload() {
	uploadTotal.Add(1)
}

// IncUploadConflict increments the duplicate-identifier counter.
func IncUploadConflict() {
	uploadConflictTotal.Add(1)
}

// IncAnalyze increments the analysis counter.
func IncAnalyze() {
	analyzeTotal.Add(1)
}

// IncAnalyzeFailed increments the failed-analysis counter.
func IncAnalyzeFailed() {
	analyzeFailedTotal.Add(1)
}

// ObserveAnalyzeDuration records an analysis duration in milliseconds.
func ObserveAnalyzeDuration(value float64) {
	if value < 0 {
		value = 0
	}
	analyzeDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "verify_hit_total", "Total verification lookups that matched a record", verifyHitTotal.Load())
	writeCounter(&buf, "verify_miss_total", "Total verification lookups with no match", verifyMissTotal.Load())
	writeCounter(&buf, "upload_total", "Total certificates uploaded", uploadTotal.Load())
	writeCounter(&buf, "upload_conflict_total", "Total uploads rejected as duplicate identifiers", uploadConflictTotal.Load())
	writeCounter(&buf, "analyze_total", "Total document analyses requested", analyzeTotal.Load())
	writeCounter(&buf, "analyze_failed_total", "Total document analyses that failed", analyzeFailedTotal.Load())
	writeHistogram(&buf, "analyze_duration_ms", "Document analysis duration in milliseconds", analyzeDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
