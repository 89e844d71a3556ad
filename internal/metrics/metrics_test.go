package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := New(reg)
	require.NoError(t, err)

	m.ActionFinished("push", OutcomeSuccess)
	m.ObserveActionDuration("push", 20*time.Millisecond)
	m.ObserveSlotWait(time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "syncbridge_actions_total")
	assert.Contains(t, names, "syncbridge_action_duration_seconds")
	assert.Contains(t, names, "syncbridge_slot_wait_seconds")
	assert.Contains(t, names, "syncbridge_queue_depth")
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_Counters(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ActionFinished("pull", OutcomeSuccess)
	m.ActionFinished("pull", OutcomeSuccess)
	m.ActionFinished("pull", OutcomeFailure)
	m.ProgressDelivered()
	m.NotificationFailed()
	m.SetQueueDepth(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("pull", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("pull", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.progressEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queueDepth))

	expected := `
# HELP syncbridge_actions_total Number of submitted actions by action name and outcome
# TYPE syncbridge_actions_total counter
syncbridge_actions_total{action="pull",outcome="failure"} 1
syncbridge_actions_total{action="pull",outcome="success"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(m.actionsTotal, strings.NewReader(expected)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ActionFinished("push", OutcomeSuccess)
		m.ObserveActionDuration("push", time.Second)
		m.ObserveSlotWait(time.Second)
		m.SetQueueDepth(1)
		m.ProgressDelivered()
		m.NotificationFailed()
	})
}
