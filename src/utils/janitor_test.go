package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitorRunNow(t *testing.T) {
	j := NewJanitor(nil)
	var a, b atomic.Int32

	require.NoError(t, j.AddJob("cache", "@every 1m", func() { a.Add(1) }))
	require.NoError(t, j.AddJob("sessions", "*/5 * * * *", func() { b.Add(1) }))

	j.RunNow()
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestJanitorRejectsBadSchedules(t *testing.T) {
	j := NewJanitor(nil)

	assert.Error(t, j.AddJob("bad", "every minute", func() {}))
	require.NoError(t, j.AddJob("ok", "@hourly", func() {}))
	assert.Error(t, j.AddJob("ok", "@hourly", func() {}))
}

func TestJanitorRecoversPanics(t *testing.T) {
	j := NewJanitor(nil)
	require.NoError(t, j.AddJob("boom", "@hourly", func() { panic("boom") }))

	assert.NotPanics(t, j.RunNow)

	j.Start()
	j.Stop()
}
