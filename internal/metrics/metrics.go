// Package metrics holds the prometheus collectors of the sync bridge.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "syncbridge"

// Outcome labels for ActionsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeRouting = "routing"
)

// Metrics holds the dispatch and notification collectors. Every method is a
// no-op on a nil *Metrics.
type Metrics struct {
	actionsTotal         *prometheus.CounterVec
	actionDuration       *prometheus.HistogramVec
	slotWait             prometheus.Histogram
	queueDepth           prometheus.Gauge
	progressEvents       prometheus.Counter
	notificationFailures prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Number of submitted actions by action name and outcome",
		}, []string{"action", "outcome"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time an action handler held the dispatch slot",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"action"}),
		slotWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slot_wait_seconds",
			Help:      "Time a dequeued action waited for the dispatch slot",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of actions waiting for a dispatcher worker",
		}),
		progressEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_events_total",
			Help:      "Number of progress events delivered to the notification sink",
		}),
		notificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Number of progress events the notification sink failed to accept",
		}),
	}

	err := errors.Join(
		reg.Register(m.actionsTotal),
		reg.Register(m.actionDuration),
		reg.Register(m.slotWait),
		reg.Register(m.queueDepth),
		reg.Register(m.progressEvents),
		reg.Register(m.notificationFailures),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ActionFinished counts one finished action by name and outcome.
func (m *Metrics) ActionFinished(action, outcome string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveActionDuration records how long the handler of action ran.
func (m *Metrics) ObserveActionDuration(action string, d time.Duration) {
	if m == nil {
		return
	}
	m.actionDuration.WithLabelValues(action).Observe(d.Seconds())
}

// ObserveSlotWait records how long an action waited for the dispatch slot.
func (m *Metrics) ObserveSlotWait(d time.Duration) {
	if m == nil {
		return
	}
	m.slotWait.Observe(d.Seconds())
}

// SetQueueDepth sets the number of queued actions.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// ProgressDelivered counts one progress event handed to the sinks.
func (m *Metrics) ProgressDelivered() {
	if m == nil {
		return
	}
	m.progressEvents.Inc()
}

// NotificationFailed counts one failed or panicking sink delivery.
func (m *Metrics) NotificationFailed() {
	if m == nil {
		return
	}
	m.notificationFailures.Inc()
}
