package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of pingo_general_counters.
const (
	RequestsTotal         = "requests_total"
	SweepsTotal           = "sweeps_total"
	SweepDeletedTotal     = "sweep_deleted_total"
	SweepUnavailableTotal = "sweep_unavailable_total"
	SweepFileErrorsTotal  = "sweep_file_errors_total"
	ArchivesServedTotal   = "archives_served_total"
	FilesServedTotal      = "files_served_total"
	AssetsReplacedTotal   = "assets_replaced_total"
	EventsDroppedTotal    = "events_dropped_total"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pingo",
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewTestCounter is an unregistered counter for tests, where promauto would
// panic on duplicate registration.
func NewTestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pingo",
			Name:      "general_counters",
		},
		[]string{"result"})
}
