package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersAllMetrics(t *testing.T) {
	manager, registry := NewTestManagerAndRegistry()
	require.NotNil(t, manager)

	manager.CounterLogins.Inc()
	manager.CounterFailedLogins.Inc()
	manager.CounterMessagesReceived.Inc()
	manager.CounterContentCreated.With(prometheus.Labels{"collection": "service"}).Inc()
	manager.CounterRequests.With(prometheus.Labels{"method": "GET", "status": "200"}).Inc()
	manager.GaugeLifeSignal.Set(1)
	manager.HistogramRequestDuration.
		With(prometheus.Labels{"method": "GET", "status_code": "200"}).
		Observe(0.042)

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	for _, tc := range []struct {
		name string
		kind dto.MetricType
	}{
		{name: "backend_test_server_logins", kind: dto.MetricType_COUNTER},
		{name: "backend_test_server_failed_logins", kind: dto.MetricType_COUNTER},
		{name: "backend_test_server_messages_received", kind: dto.MetricType_COUNTER},
		{name: "backend_test_server_content_created", kind: dto.MetricType_COUNTER},
		{name: "backend_test_server_request", kind: dto.MetricType_COUNTER},
		{name: "backend_test_server_life_signal", kind: dto.MetricType_GAUGE},
		{name: "backend_test_server_request_duration_seconds", kind: dto.MetricType_HISTOGRAM},
	} {
		mf, ok := byName[tc.name]
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.kind, mf.GetType(), tc.name)
	}

	contentCreated := byName["backend_test_server_content_created"]
	require.Len(t, contentCreated.GetMetric(), 1)
	assert.Equal(t, float64(1), contentCreated.GetMetric()[0].GetCounter().GetValue())
	require.Len(t, contentCreated.GetMetric()[0].GetLabel(), 1)
	assert.Equal(t, "collection", contentCreated.GetMetric()[0].GetLabel()[0].GetName())
	assert.Equal(t, "service", contentCreated.GetMetric()[0].GetLabel()[0].GetValue())

	histogram := byName["backend_test_server_request_duration_seconds"]
	require.Len(t, histogram.GetMetric(), 1)
	assert.Equal(t, uint64(1), histogram.GetMetric()[0].GetHistogram().GetSampleCount())
}
