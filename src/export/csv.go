package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"market-analyzer/src/analysis/core"
	"market-analyzer/src/models"
)

var header = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// FileName is the download name for a symbol's history.
func FileName(symbol string) string {
	return strings.ToUpper(symbol) + "_stock_data.csv"
}

// -----------------------------------------------------------------------------

// WriteCSV writes history as Date,Open,High,Low,Close,Volume rows, oldest
// first. Missing values are written as empty cells.
func WriteCSV(w io.Writer, history models.MPriceHistory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, b := range history.Bars {
		record := []string{
			b.Date.Format(time.DateOnly),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if !core.IsFinite(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
