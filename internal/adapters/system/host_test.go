package system

import (
	"context"
	"testing"
)

func TestSnapshotReportsLocalHost(t *testing.T) {
	metrics, err := NewHostMonitor().Snapshot(context.Background())
	if err != nil {
		t.Skipf("host metrics unavailable here: %v", err)
	}
	if metrics.Hostname == "" {
		t.Fatalf("expected a hostname, got %+v", metrics)
	}
	if metrics.MemoryPercent < 0 || metrics.MemoryPercent > 100 {
		t.Fatalf("memory percent out of range: %v", metrics.MemoryPercent)
	}
}
