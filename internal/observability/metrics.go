package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	samplesIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workouttrack",
		Subsystem: "ingest",
		Name:      "samples_total",
		Help:      "Number of position samples ingested, by transport.",
	}, []string{"transport"})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workouttrack",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of sessions with a live accumulator.",
	})
	snapshotsBroadcast = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workouttrack",
		Subsystem: "stream",
		Name:      "snapshots_total",
		Help:      "Number of live snapshots broadcast to watchers.",
	})
)

func init() {
	prometheus.MustRegister(samplesIngested, activeSessions, snapshotsBroadcast)
}

// RecordSampleIngested counts one ingested sample for the given transport.
func RecordSampleIngested(transport string) {
	samplesIngested.WithLabelValues(transport).Inc()
}

// SetActiveSessions updates the live-session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// RecordSnapshotBroadcast counts one snapshot pushed to the stream hub.
func RecordSnapshotBroadcast() {
	snapshotsBroadcast.Inc()
}
