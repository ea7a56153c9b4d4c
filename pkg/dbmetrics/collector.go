package dbmetrics

import (
	"database/sql"
	"time"

	"github.com/m04kA/SMC-ClinicBooking/pkg/metrics"
)

func collectPoolStats(db *sql.DB, m *metrics.Metrics, serviceName string, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		publishPoolStats(db.Stats(), m, serviceName)
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}

func publishPoolStats(stats sql.DBStats, m *metrics.Metrics, serviceName string) {
	m.DBOpenConnections.WithLabelValues(serviceName, "open").Set(float64(stats.OpenConnections))
	m.DBOpenConnections.WithLabelValues(serviceName, "in_use").Set(float64(stats.InUse))
	m.DBOpenConnections.WithLabelValues(serviceName, "idle").Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(serviceName).Set(float64(stats.WaitCount))
}
