package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PollMetrics exposes counters for the polling loop
type PollMetrics struct {
	fetchTotal         *prometheus.CounterVec
	slotsOffered       *prometheus.GaugeVec
	newSlotsTotal      *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	tickDuration       prometheus.Histogram
}

// NewPollMetrics registers the loop metrics on reg, the default registerer when nil
func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	m := &PollMetrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwatcher",
			Subsystem: "poller",
			Name:      "fetch_total",
			Help:      "Booking page fetches by endpoint and outcome",
		}, []string{"endpoint", "status"}),
		slotsOffered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "slotwatcher",
			Subsystem: "poller",
			Name:      "slots_offered",
			Help:      "Slots listed on the last successful fetch",
		}, []string{"endpoint"}),
		newSlotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwatcher",
			Subsystem: "poller",
			Name:      "new_slots_total",
			Help:      "Slots seen for the first time",
		}, []string{"endpoint"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwatcher",
			Subsystem: "poller",
			Name:      "notifications_total",
			Help:      "Notification dispatches by outcome",
		}, []string{"status"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slotwatcher",
			Subsystem: "poller",
			Name:      "tick_duration_seconds",
			Help:      "Time spent polling every endpoint once",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fetchTotal, m.slotsOffered, m.newSlotsTotal, m.notificationsTotal, m.tickDuration)
	return m
}

func (m *PollMetrics) ObserveFetch(endpoint, status string) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(endpoint, status).Inc()
}

func (m *PollMetrics) SetOffered(endpoint string, n int) {
	if m == nil {
		return
	}
	m.slotsOffered.WithLabelValues(endpoint).Set(float64(n))
}

func (m *PollMetrics) AddNewSlots(endpoint string, n int) {
	if m == nil {
		return
	}
	m.newSlotsTotal.WithLabelValues(endpoint).Add(float64(n))
}

func (m *PollMetrics) ObserveNotification(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

func (m *PollMetrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}

// Handler serves the metrics gathered by g, the default gatherer when nil
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
