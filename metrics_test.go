package futures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsDisabledByDefault(t *testing.T) {
	l, err := New()
	require.NoError(t, err)
	snapshot, enabled := l.Metrics()
	assert.False(t, enabled)
	assert.Zero(t, snapshot)
}

func TestMetricsCounters(t *testing.T) {
	l, err := New(WithMetrics(true))
	require.NoError(t, err)

	resolved := l.Resolve(Int(1))
	cancelled := l.Never(nil)
	idle, err := l.OnIdle(func(...Value) (Value, error) { return Nil(), nil })
	require.NoError(t, err)

	require.NoError(t, resolved.Run(nil, nil, nil))
	require.NoError(t, cancelled.Run(nil, nil, nil))
	require.NoError(t, idle.Run(nil, nil, nil))
	require.NoError(t, cancelled.Cancel())
	drain(t, l)

	snapshot, enabled := l.Metrics()
	require.True(t, enabled)
	assert.Equal(t, uint64(3), snapshot.FuturesCreated)
	assert.Equal(t, uint64(2), snapshot.FuturesSettled, "resolve leaf and idle leaf")
	assert.Equal(t, uint64(1), snapshot.FuturesCancelled)
	assert.Equal(t, uint64(1), snapshot.IdleTasks)
	assert.Equal(t, snapshot.Tasks+snapshot.IdleTasks, snapshot.Ticks)
	assert.Equal(t, l.Ticks(), snapshot.Ticks)
}
