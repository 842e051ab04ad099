package pipeline

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for i, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ms, i+1)
	}

	snap := stats.Snapshot()
	if snap.Documents != 5 {
		t.Fatalf("expected documents=5, got %d", snap.Documents)
	}
	if snap.Pages != 15 {
		t.Fatalf("expected pages=15, got %d", snap.Pages)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(100, 3)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Documents != 0 || snap.Pages != 0 {
		t.Fatalf("expected empty snapshot after prune, got %+v", snap)
	}

	stats.Record(200, 1)
	snap = stats.Snapshot()
	if snap.Documents != 1 {
		t.Fatalf("expected documents=1 for fresh sample, got %d", snap.Documents)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeValues(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(-10, -2)
	snap := stats.Snapshot()
	if snap.Documents != 1 {
		t.Fatalf("expected documents=1, got %d", snap.Documents)
	}
	if snap.MinMs != 0 || snap.Pages != 0 {
		t.Fatalf("expected clamped values, got min=%d pages=%d", snap.MinMs, snap.Pages)
	}
}

func TestStatsPagesFollowWindow(t *testing.T) {
	stats := NewStats(30 * time.Millisecond)
	stats.Record(100, 4)
	stats.Record(120, 6)
	if snap := stats.Snapshot(); snap.Pages != 10 {
		t.Fatalf("expected pages=10, got %d", snap.Pages)
	}

	time.Sleep(45 * time.Millisecond)
	stats.Record(50, 2)
	snap := stats.Snapshot()
	if snap.Documents != 1 {
		t.Fatalf("expected documents=1, got %d", snap.Documents)
	}
	if snap.Pages != 2 {
		t.Errorf("expected pages=2 after expired samples pruned, got %d", snap.Pages)
	}
}
