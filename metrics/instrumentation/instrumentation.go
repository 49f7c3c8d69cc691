package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// SchemeModern HMAC signed or unsafe URLs
	SchemeModern = "modern"
	// SchemeLegacy AES encrypted URLs
	SchemeLegacy = "legacy"
)

var (
	// GenerateLatency tracks latency of URL generation per scheme
	GenerateLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumborurl_generate_duration_seconds",
			Help:    "A histogram of latencies for thumbor URL generation",
			Buckets: []float64{.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		},
		[]string{"scheme", "status"},
	)

	// GenerateCounter tracks URL generation counts per scheme
	GenerateCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumborurl_generate_total",
			Help: "Total number of thumbor URLs generated",
		},
		[]string{"scheme", "status"},
	)
)

func init() {
	prometheus.MustRegister(GenerateLatency)
	prometheus.MustRegister(GenerateCounter)
}

// Instrumentation records URL generation metrics
type Instrumentation struct {
	Logger *zap.Logger
}

// New creates a new Instrumentation instance
func New(logger *zap.Logger) *Instrumentation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumentation{
		Logger: logger,
	}
}

// Timer times one URL generation
type Timer struct {
	instrumentation *Instrumentation
	scheme          string
	start           time.Time
}

// NewTimer starts a Timer for scheme
func (i *Instrumentation) NewTimer(scheme string) *Timer {
	return &Timer{
		instrumentation: i,
		scheme:          scheme,
		start:           time.Now(),
	}
}

// ObserveDuration records the duration and outcome of the generation
func (t *Timer) ObserveDuration(err error) {
	if t == nil || t.instrumentation == nil {
		return
	}
	t.instrumentation.Record(t.scheme, time.Since(t.start), err)
}

// Record records the duration and status of a URL generation
func (i *Instrumentation) Record(scheme string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GenerateLatency.WithLabelValues(scheme, status).Observe(duration.Seconds())
	GenerateCounter.WithLabelValues(scheme, status).Inc()

	if i.Logger != nil {
		i.Logger.Debug("generate",
			zap.String("scheme", scheme),
			zap.Duration("duration", duration),
			zap.String("status", status),
			zap.Error(err))
	}
}
