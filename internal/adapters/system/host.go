package system

import (
	"context"

	"github.com/minbot/dashboard/internal/domain"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostMonitor reports load on the machine serving the dashboard.
type HostMonitor struct{}

func NewHostMonitor() *HostMonitor {
	return &HostMonitor{}
}

func (HostMonitor) Snapshot(ctx context.Context) (domain.HostMetrics, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return domain.HostMetrics{}, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.HostMetrics{}, err
	}
	metrics := domain.HostMetrics{
		Hostname:      info.Hostname,
		UptimeSeconds: info.Uptime,
		MemoryPercent: vm.UsedPercent,
		MemoryUsedMB:  vm.Used / 1024 / 1024,
	}
	if percent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percent) > 0 {
		metrics.CPUPercent = percent[0]
	}
	return metrics, nil
}
