package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsAreRegistered(t *testing.T) {
	before := testutil.ToFloat64(Forecasts.WithLabelValues("ok"))
	Forecasts.WithLabelValues("ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Forecasts.WithLabelValues("ok")))

	CacheEntries.Set(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(CacheEntries))

	assert.GreaterOrEqual(t, testutil.CollectAndCount(Forecasts), 1)
}
