package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"peak/pkg/studio"
)

type Metrics struct {
	Registry    *prometheus.Registry
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peak",
			Name:      "generations_total",
			Help:      "Script generation attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "peak",
			Name:      "generation_duration_seconds",
			Help:      "Time spent on generation attempts that reached the provider.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.generations,
		m.duration,
	)
	return m
}

// Observe records one generation attempt. Local rejections are counted but
// kept out of the latency histogram.
func (m *Metrics) Observe(outcome studio.Outcome, elapsed time.Duration) {
	m.generations.WithLabelValues(string(outcome)).Inc()
	switch outcome {
	case studio.OutcomeBusy, studio.OutcomeMissingSubject, studio.OutcomeMissingCredential, studio.OutcomeInvalidForm:
		return
	}
	m.duration.Observe(elapsed.Seconds())
}

// TrackHistory exports the history length of st.
func (m *Metrics) TrackHistory(st *studio.Studio) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "peak",
		Name:      "history_scripts",
		Help:      "Scripts held in the history.",
	}, func() float64 { return float64(len(st.History())) }))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
