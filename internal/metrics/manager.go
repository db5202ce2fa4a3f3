package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterGatewayCalls    *prometheus.CounterVec
	CounterPersonalRecords prometheus.Counter
	CounterCheckIns        prometheus.Counter
	CounterRestTimersDone  prometheus.Counter

	// gauges
	GaugeSessions prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
	HistGatewayDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitlab", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitlab", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterGatewayCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "gateway_call",
			Help:      "The total number of remote data gateway calls",
		}, []string{"op", "outcome"}),
		CounterPersonalRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "personal_records",
			Help:      "The total number of personal records detected",
		}),
		CounterCheckIns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkins",
			Help:      "The total number of recorded check-ins",
		}),
		CounterRestTimersDone: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rest_timers_done",
			Help:      "The total number of rest countdowns that ran to zero",
		}),
		GaugeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions",
			Help:      "The number of live session stores",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HistGatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "gateway_duration_seconds",
			Help:      "Remote data gateway call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}
