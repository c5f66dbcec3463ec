package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PoolStats exports sql.DBStats as Prometheus gauges.
type PoolStats struct {
	open     prometheus.Gauge
	inUse    prometheus.Gauge
	idle     prometheus.Gauge
	waitUsed prometheus.Gauge
}

// NewPoolStats registers the pool gauges on reg.
func NewPoolStats(reg prometheus.Registerer) *PoolStats {
	s := &PoolStats{
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskkeeper", Subsystem: "db", Name: "open_connections",
			Help: "Established connections, in use and idle.",
		}),
		inUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskkeeper", Subsystem: "db", Name: "in_use_connections",
			Help: "Connections currently in use.",
		}),
		idle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskkeeper", Subsystem: "db", Name: "idle_connections",
			Help: "Idle connections.",
		}),
		waitUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskkeeper", Subsystem: "db", Name: "wait_count",
			Help: "Total number of connections waited for.",
		}),
	}
	reg.MustRegister(s.open, s.inUse, s.idle, s.waitUsed)
	return s
}

// Observe copies one snapshot into the gauges.
func (s *PoolStats) Observe(st sql.DBStats) {
	s.open.Set(float64(st.OpenConnections))
	s.inUse.Set(float64(st.InUse))
	s.idle.Set(float64(st.Idle))
	s.waitUsed.Set(float64(st.WaitCount))
}

// StartPoolStatsReporter samples db.Stats every interval until ctx is done.
func StartPoolStatsReporter(
	ctx context.Context,
	db *sql.DB,
	stats *PoolStats,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := db.Stats()
				stats.Observe(st)
				if st.WaitCount > 0 {
					log.Debug("db pool waits",
						zap.Int64("wait_count", st.WaitCount),
						zap.Duration("wait_duration", st.WaitDuration),
					)
				}
			}
		}
	}()
}
