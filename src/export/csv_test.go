package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"market-analyzer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	h := models.MPriceHistory{Symbol: "AAPL", Bars: []models.MPriceBar{
		{Date: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), Open: 169.15, High: 170.73, Low: 168.49, Close: 169, Volume: 71765100},
		{Date: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), Open: math.NaN(), High: 173.7, Low: 168.94, Close: 170.73, Volume: 76114600},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, h))

	want := "Date,Open,High,Low,Close,Volume\n" +
		"2024-03-07,169.15,170.73,168.49,169,71765100\n" +
		"2024-03-08,,173.7,168.94,170.73,76114600\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.MPriceHistory{}))
	assert.Equal(t, "Date,Open,High,Low,Close,Volume\n", buf.String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "AAPL_stock_data.csv", FileName("aapl"))
}
