package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ConfigureAccepted = "accepted"
	ConfigureRejected = "rejected"
	ConfigureFailed   = "failed"
)

var (
	ConfigureSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: PortalSubsystem,
		Name:      "configure_submissions_total",
		Help:      "configuration submissions by outcome",
	}, []string{"result"})
)

var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: PortalSubsystem,
		Name:      "scan_duration_seconds",
		Help:      "Duration of wifi scans.",
		Buckets:   []float64{.1, .25, .5, 1, 2, 4, 6, 8, 10},
	})

	NetworksFound = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: PortalSubsystem,
		Name:      "networks_found",
		Help:      "number of networks returned by the last scan",
	})
)

var (
	InstallationStep = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: StatusSubsystem,
		Name:      "installation_step",
		Help:      "installation step shown by the last status page render (0-5)",
	})
)
