package analysis

import (
	"math"
	"testing"

	"market-analyzer/src/helpers"
	"market-analyzer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"missing", nil, "N/A"},
		{"nan", models.Float(math.NaN()), "N/A"},
		{"plain", models.Float(999), "999.00"},
		{"thousands", models.Float(1500), "1.50K"},
		{"millions", models.Float(2.5e6), "2.50M"},
		{"billions", models.Float(3.2e9), "3.20B"},
		{"trillions stay in billions", models.Float(2.75e12), "2750.00B"},
		{"negative", models.Float(-1500), "-1500.00"},
		{"zero", models.Float(0), "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestKeyMetricsOrder(t *testing.T) {
	info := models.MIssuerMetadata{
		MarketCap:        models.Float(2.8e12),
		TrailingPE:       models.Float(29.123),
		FiftyTwoWeekHigh: models.Float(199.62),
		Volume:           models.Float(52_000_000),
	}

	metrics := KeyMetrics(info)

	require.Len(t, metrics, 6)
	labels := make([]string, len(metrics))
	for i, m := range metrics {
		labels[i] = m.Label
	}
	assert.Equal(t, []string{"Market Cap", "P/E Ratio", "52 Week High", "52 Week Low", "Volume", "Avg Volume"}, labels)
	assert.Equal(t, "2800.00B", metrics[0].Value)
	assert.Equal(t, "29.12", metrics[1].Value)
	assert.Equal(t, "199.62", metrics[2].Value)
	assert.Equal(t, "N/A", metrics[3].Value)
	assert.Equal(t, "52.00M", metrics[4].Value)
	assert.Equal(t, "N/A", metrics[5].Value)
}

func TestPriceSummary(t *testing.T) {
	h := strictlyRising(2, 1.5)

	s, err := PriceSummary(h)
	require.NoError(t, err)
	assert.Equal(t, "$101.50", s.CurrentPrice)
	assert.Equal(t, "+1.50", s.Change)
	assert.Equal(t, "+1.50%", s.ChangePercent)
}

func TestPriceSummarySkipsMissingClose(t *testing.T) {
	h := strictlyRising(3, 1)
	h.Bars[2].Close = math.NaN()

	s, err := PriceSummary(h)
	require.NoError(t, err)
	assert.Equal(t, "$101.00", s.CurrentPrice)
	assert.Equal(t, "+1.00", s.Change)
}

func TestPriceSummaryFalling(t *testing.T) {
	s, err := PriceSummary(strictlyRising(2, -2))
	require.NoError(t, err)
	assert.Equal(t, "$98.00", s.CurrentPrice)
	assert.Equal(t, "-2.00", s.Change)
	assert.Equal(t, "-2.00%", s.ChangePercent)
}

func TestPriceSummaryNeedsTwoBars(t *testing.T) {
	_, err := PriceSummary(strictlyRising(1, 1))
	assert.ErrorIs(t, err, helpers.ErrInsufficientHistory)
}
