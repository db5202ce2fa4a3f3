package metrics_test

import (
	"testing"

	"alcyxob/fitlab/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterGatewayCalls.WithLabelValues("list_members", "ok").Inc()
	m.CounterPersonalRecords.Inc()
	m.CounterPersonalRecords.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterPersonalRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterGatewayCalls.WithLabelValues("list_members", "ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
