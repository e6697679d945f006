package server

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordExchange(t *testing.T) {
	m := NewMetrics(nil)

	m.RecordExchange(true, nil, 3*time.Millisecond)
	m.RecordExchange(true, nil, time.Millisecond)
	m.RecordExchange(false, nil, time.Millisecond)
	m.RecordExchange(false, errors.New("broken pipe"), time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ResponsesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EmptyRequests))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WriteErrors))
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics(nil)
	m.ConnectionsAccepted.Add(3)
	m.AcceptErrors.Inc()
	m.RecordExchange(true, nil, time.Millisecond)

	assert.Equal(t, MetricsSnapshot{
		ConnectionsAccepted: 3,
		ResponsesTotal:      1,
		AcceptErrors:        1,
	}, m.Snapshot())
}

func TestMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ConnectionsAccepted.Inc()
	m.RecordExchange(true, nil, time.Millisecond)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// A second set on the same registry collides
	assert.Panics(t, func() { NewMetrics(reg) })
}
