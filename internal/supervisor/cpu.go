package supervisor

import (
	"os"

	"github.com/pbnjay/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"
)

// HostSampler periodically samples host resource pressure for the
// splendor_supervisor_host_* gauges. This is an ambient operational metric,
// not a rules concern: it does not influence CPU quota scheduling, which
// is driven purely by GameInstance.PreparePlayerChange's fixed quota pair.
// Grounded on the teacher pack's collectors.go system-stat-sampling
// pattern (vctt94-pokerbisonrelay/pkg/server/collectors.go).
type HostSampler struct {
	fs procfs.FS

	cpuSeconds prometheus.Gauge
	memTotal   prometheus.Gauge
	memFree    prometheus.Gauge
}

// NewHostSampler opens /proc via procfs and registers its gauges with reg.
func NewHostSampler(reg prometheus.Registerer) (*HostSampler, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, err
	}
	s := &HostSampler{
		fs: fs,
		cpuSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splendor_supervisor_host_process_cpu_seconds",
			Help: "Cumulative CPU time consumed by the supervisor process.",
		}),
		memTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splendor_supervisor_host_memory_total_bytes",
			Help: "Total host memory, as reported by the OS.",
		}),
		memFree: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splendor_supervisor_host_memory_free_bytes",
			Help: "Free host memory, as reported by the OS.",
		}),
	}
	reg.MustRegister(s.cpuSeconds, s.memTotal, s.memFree)
	return s, nil
}

// Sample takes one reading and updates the gauges. Errors reading /proc
// are swallowed; a missed sample is preferable to crashing the supervisor.
func (s *HostSampler) Sample() {
	if proc, err := s.fs.Proc(os.Getpid()); err == nil {
		if stat, err := proc.Stat(); err == nil {
			s.cpuSeconds.Set(stat.CPUTime())
		}
	}
	s.memTotal.Set(float64(memory.TotalMemory()))
	s.memFree.Set(float64(memory.FreeMemory()))
}
